package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPersister struct {
	err   error
	saves int
}

func (p *failingPersister) Save(Snapshot) error {
	p.saves++
	return p.err
}

func newUser(t *testing.T, s *Storage, email string) uuid.UUID {
	t.Helper()
	id, err := s.CreateUser(context.Background(), email, []byte("hash"))
	require.NoError(t, err)
	return id
}

func TestStorage_CreateUser_RejectsDuplicateEmail(t *testing.T) {
	// Arrange
	s := New()
	newUser(t, s, "a@example.com")

	// Act
	_, err := s.CreateUser(context.Background(), "a@example.com", []byte("other"))

	// Assert
	assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)
}

func TestStorage_WithinOwnerTx_UnknownOwner(t *testing.T) {
	s := New()

	err := s.WithinOwnerTx(context.Background(), uuid.New(), func(ctx context.Context, tx repository.OwnerTx) error {
		t.Fatal("fn must not run")
		return nil
	})

	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestStorage_WithinOwnerTx_RollsBackOnError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := New()
	owner := newUser(t, s, "a@example.com")
	boom := errors.New("boom")

	// Act
	err := s.WithinOwnerTx(ctx, owner, func(ctx context.Context, tx repository.OwnerTx) error {
		if err := tx.SetBalance(ctx, decimal.NewFromInt(5000)); err != nil {
			return err
		}
		if _, err := tx.InsertContainers(ctx, []models.Container{{OwnerID: owner, Name: "House", Capacity: 2}}); err != nil {
			return err
		}
		return boom
	})

	// Assert
	assert.ErrorIs(t, err, boom)
	user, err := s.GetUserByID(ctx, owner)
	require.NoError(t, err)
	assert.True(t, user.Balance.IsZero())
	containers, err := s.ListContainers(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestStorage_PersisterFailureDiscardsWrite(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := New()
	owner := newUser(t, s, "a@example.com")
	p := &failingPersister{err: errors.New("disk full")}
	s.WithPersister(p)

	// Act
	_, err := s.InsertContainers(ctx, []models.Container{{OwnerID: owner, Name: "House", Capacity: 2}})

	// Assert
	require.Error(t, err)
	assert.Equal(t, 1, p.saves)
	containers, err := s.ListContainers(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestStorage_QueriesAreScopedToOwner(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := New()
	alice := newUser(t, s, "alice@example.com")
	bob := newUser(t, s, "bob@example.com")

	containers, err := s.InsertContainers(ctx, []models.Container{{OwnerID: alice, Name: "House", Capacity: 2}})
	require.NoError(t, err)
	houseID := containers[0].ID

	// Act
	_, getErr := s.GetContainer(ctx, bob, houseID)
	_, renameErr := s.RenameContainer(ctx, bob, houseID, "Mine now")
	bobs, listErr := s.ListContainers(ctx, bob)

	// Assert
	assert.ErrorIs(t, getErr, repository.ErrContainerNotFound)
	assert.ErrorIs(t, renameErr, repository.ErrContainerNotFound)
	require.NoError(t, listErr)
	assert.Empty(t, bobs)
}

func TestStorage_CreaturesLifecycle(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return clock })
	owner := newUser(t, s, "a@example.com")

	houses, err := s.InsertContainers(ctx, []models.Container{
		{OwnerID: owner, Name: "A", Capacity: 2},
		{OwnerID: owner, Name: "B", Capacity: 2},
	})
	require.NoError(t, err)
	a, b := houses[0], houses[1]

	created, err := s.InsertCreatures(ctx, []models.Creature{
		{OwnerID: owner, ContainerID: a.ID, Name: "One", Sprite: "/s/1.png"},
		{OwnerID: owner, ContainerID: a.ID, Name: "Two", Sprite: "/s/2.png"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, clock, created[0].CreatedAt)

	// Act
	require.NoError(t, s.RetireCreatures(ctx, owner, []uuid.UUID{created[0].ID}))
	moved, err := s.ReassignCreatures(ctx, owner, a.ID, b.ID)
	require.NoError(t, err)

	// Assert
	assert.EqualValues(t, 2, moved, "retired creatures move too")

	alive, err := s.ListAliveCreatures(ctx, owner)
	require.NoError(t, err)
	require.Len(t, alive, 1)
	assert.Equal(t, "Two", alive[0].Name)
	assert.Equal(t, b.ID, alive[0].ContainerID)

	_, err = s.GetCreature(ctx, owner, created[0].ID)
	assert.ErrorIs(t, err, repository.ErrCreatureNotFound)

	occupancy, err := s.Occupancy(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{b.ID: 1}, occupancy)

	sprites, err := s.UnlockedSprites(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"/s/1.png", "/s/2.png"}, sprites)
}

func TestStorage_SoftDeletedContainerIsHidden(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := newUser(t, s, "a@example.com")
	houses, err := s.InsertContainers(ctx, []models.Container{{OwnerID: owner, Name: "A", Capacity: 2}})
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteContainer(ctx, owner, houses[0].ID))

	_, err = s.GetContainer(ctx, owner, houses[0].ID)
	assert.ErrorIs(t, err, repository.ErrContainerNotFound)
	snapshot := s.ExportState()
	require.Len(t, snapshot.Containers, 1)
	assert.True(t, snapshot.Containers[0].Deleted)
}

func TestStorage_TransactionsNewestFirstAndCategories(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := newUser(t, s, "a@example.com")

	for _, cat := range []string{"Food", "Rent", "Food", ""} {
		_, err := s.InsertTransaction(ctx, models.Transaction{
			OwnerID: owner, Kind: models.KindDebit, Amount: decimal.NewFromInt(10), Category: cat,
		})
		require.NoError(t, err)
	}
	last, err := s.InsertTransaction(ctx, models.Transaction{
		OwnerID: owner, Kind: models.KindCredit, Amount: decimal.NewFromInt(10), Category: "Salary",
	})
	require.NoError(t, err)

	txs, err := s.ListTransactions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, txs, 5)
	assert.Equal(t, last.ID, txs[0].ID)

	debit, err := s.DistinctCategories(ctx, owner, models.KindDebit)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Rent"}, debit)

	_, err = s.SetWorthIt(ctx, uuid.New(), last.ID, true)
	assert.ErrorIs(t, err, repository.ErrTransactionNotFound)

	_, err = s.SetWorthIt(ctx, owner, last.ID, true)
	assert.ErrorIs(t, err, repository.ErrNotDebit)
}

func TestStorage_ImportStateRestoresUsers(t *testing.T) {
	// Arrange
	ctx := context.Background()
	src := New()
	owner := newUser(t, src, "a@example.com")
	snapshot := src.ExportState()

	// Act
	dst := New()
	dst.ImportState(snapshot)

	// Assert
	user, err := dst.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, owner, user.ID)
	assert.Equal(t, []byte("hash"), user.Password)
}
