// Package memory is an in-process storage driver. Every write runs against a copy of the
// state that replaces the live one only when the write and its persistence succeed.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type state struct {
	users        map[uuid.UUID]models.User
	emails       map[string]uuid.UUID
	transactions []models.Transaction
	containers   []models.Container
	creatures    []models.Creature
}

func newState() *state {
	return &state{
		users:  make(map[uuid.UUID]models.User),
		emails: make(map[string]uuid.UUID),
	}
}

func (st *state) clone() *state {
	users := make(map[uuid.UUID]models.User, len(st.users))
	for id, u := range st.users {
		users[id] = u
	}
	emails := make(map[string]uuid.UUID, len(st.emails))
	for email, id := range st.emails {
		emails[email] = id
	}
	return &state{
		users:        users,
		emails:       emails,
		transactions: slices.Clone(st.transactions),
		containers:   slices.Clone(st.containers),
		creatures:    slices.Clone(st.creatures),
	}
}

// Persister receives the full state after every successful write. A Save error
// discards the write.
type Persister interface {
	Save(snapshot Snapshot) error
}

type Storage struct {
	mu        sync.Mutex
	st        *state
	now       func() time.Time
	persister Persister
}

var _ repository.Store = (*Storage)(nil)

func New() *Storage {
	return &Storage{st: newState(), now: time.Now}
}

// WithClock replaces the clock used for created_at/updated_at stamps.
func (s *Storage) WithClock(now func() time.Time) *Storage {
	s.now = now
	return s
}

func (s *Storage) WithPersister(p Persister) *Storage {
	s.persister = p
	return s
}

func (s *Storage) view() *view {
	return &view{st: s.st, now: s.now}
}

// write applies fn to a copy of the state and swaps it in on success. The caller holds the lock.
func (s *Storage) write(fn func(v *view) error) error {
	work := &view{st: s.st.clone(), now: s.now}
	if err := fn(work); err != nil {
		return err
	}

	if s.persister != nil {
		if err := s.persister.Save(exportState(work.st)); err != nil {
			return err
		}
	}

	s.st = work.st
	return nil
}

func (s *Storage) WithinOwnerTx(ctx context.Context, ownerID uuid.UUID, fn repository.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.users[ownerID]; !ok {
		return repository.ErrUserNotFound
	}

	return s.write(func(v *view) error {
		return fn(ctx, &ownerTx{view: v, ownerID: ownerID})
	})
}

func (s *Storage) Close() error { return nil }

type ownerTx struct {
	*view
	ownerID uuid.UUID
}

func (t *ownerTx) LockedUser(ctx context.Context) (models.User, error) {
	return t.GetUserByID(ctx, t.ownerID)
}

func (t *ownerTx) SetBalance(_ context.Context, balance decimal.Decimal) error {
	u, ok := t.st.users[t.ownerID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Balance = balance
	t.st.users[t.ownerID] = u
	return nil
}

func (s *Storage) CreateUser(ctx context.Context, email string, passHash []byte) (id uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		id, err = v.CreateUser(ctx, email, passHash)
		return err
	})
	return id, err
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().GetUserByEmail(ctx, email)
}

func (s *Storage) GetUserByID(ctx context.Context, ownerID uuid.UUID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().GetUserByID(ctx, ownerID)
}

func (s *Storage) InsertTransaction(ctx context.Context, t models.Transaction) (out models.Transaction, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		out, err = v.InsertTransaction(ctx, t)
		return err
	})
	return out, err
}

func (s *Storage) ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListTransactions(ctx, ownerID)
}

func (s *Storage) SetWorthIt(ctx context.Context, ownerID, id uuid.UUID, worthIt bool) (out models.Transaction, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		out, err = v.SetWorthIt(ctx, ownerID, id, worthIt)
		return err
	})
	return out, err
}

func (s *Storage) DistinctCategories(ctx context.Context, ownerID uuid.UUID, kind models.TransactionKind) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().DistinctCategories(ctx, ownerID, kind)
}

func (s *Storage) ListContainers(ctx context.Context, ownerID uuid.UUID) ([]models.Container, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListContainers(ctx, ownerID)
}

func (s *Storage) GetContainer(ctx context.Context, ownerID, id uuid.UUID) (models.Container, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().GetContainer(ctx, ownerID, id)
}

func (s *Storage) Occupancy(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().Occupancy(ctx, ownerID)
}

func (s *Storage) InsertContainers(ctx context.Context, containers []models.Container) (out []models.Container, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		out, err = v.InsertContainers(ctx, containers)
		return err
	})
	return out, err
}

func (s *Storage) SetContainerPosition(ctx context.Context, ownerID, id uuid.UUID, x, y float64) (out models.Container, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		out, err = v.SetContainerPosition(ctx, ownerID, id, x, y)
		return err
	})
	return out, err
}

func (s *Storage) RenameContainer(ctx context.Context, ownerID, id uuid.UUID, name string) (out models.Container, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		out, err = v.RenameContainer(ctx, ownerID, id, name)
		return err
	})
	return out, err
}

func (s *Storage) SetContainerCapacity(ctx context.Context, ownerID, id uuid.UUID, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(func(v *view) error {
		return v.SetContainerCapacity(ctx, ownerID, id, capacity)
	})
}

func (s *Storage) SoftDeleteContainer(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(func(v *view) error {
		return v.SoftDeleteContainer(ctx, ownerID, id)
	})
}

func (s *Storage) DeleteContainer(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(func(v *view) error {
		return v.DeleteContainer(ctx, ownerID, id)
	})
}

func (s *Storage) ListAliveCreatures(ctx context.Context, ownerID uuid.UUID) ([]models.Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListAliveCreatures(ctx, ownerID)
}

func (s *Storage) ListContainerCreatures(ctx context.Context, ownerID, containerID uuid.UUID) ([]models.Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().ListContainerCreatures(ctx, ownerID, containerID)
}

func (s *Storage) GetCreature(ctx context.Context, ownerID, id uuid.UUID) (models.Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().GetCreature(ctx, ownerID, id)
}

func (s *Storage) InsertCreatures(ctx context.Context, creatures []models.Creature) (out []models.Creature, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		out, err = v.InsertCreatures(ctx, creatures)
		return err
	})
	return out, err
}

func (s *Storage) RetireCreatures(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(func(v *view) error {
		return v.RetireCreatures(ctx, ownerID, ids)
	})
}

func (s *Storage) RenameCreature(ctx context.Context, ownerID, id uuid.UUID, name string) (out models.Creature, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		out, err = v.RenameCreature(ctx, ownerID, id, name)
		return err
	})
	return out, err
}

func (s *Storage) MoveCreature(ctx context.Context, ownerID, id, containerID uuid.UUID) (out models.Creature, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		out, err = v.MoveCreature(ctx, ownerID, id, containerID)
		return err
	})
	return out, err
}

func (s *Storage) ReassignCreatures(ctx context.Context, ownerID, fromID, toID uuid.UUID) (n int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.write(func(v *view) error {
		n, err = v.ReassignCreatures(ctx, ownerID, fromID, toID)
		return err
	})
	return n, err
}

func (s *Storage) UnlockedSprites(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().UnlockedSprites(ctx, ownerID)
}
