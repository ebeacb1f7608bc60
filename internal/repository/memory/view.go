package memory

import (
	"context"
	"slices"

	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"github.com/google/uuid"
	"time"
)

// view runs queries against one state; the caller holds the lock.
type view struct {
	st  *state
	now func() time.Time
}

func (v *view) CreateUser(_ context.Context, email string, passHash []byte) (uuid.UUID, error) {
	if _, ok := v.st.emails[email]; ok {
		return uuid.Nil, repository.ErrUserAlreadyExists
	}

	id := uuid.New()
	v.st.users[id] = models.User{
		ID:        id,
		Email:     email,
		Password:  slices.Clone(passHash),
		CreatedAt: v.now(),
	}
	v.st.emails[email] = id
	return id, nil
}

func (v *view) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	id, ok := v.st.emails[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return v.st.users[id], nil
}

func (v *view) GetUserByID(_ context.Context, ownerID uuid.UUID) (models.User, error) {
	u, ok := v.st.users[ownerID]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (v *view) InsertTransaction(_ context.Context, t models.Transaction) (models.Transaction, error) {
	t.ID = uuid.New()
	t.CreatedAt = v.now()
	v.st.transactions = append(v.st.transactions, t)
	return t, nil
}

func (v *view) ListTransactions(_ context.Context, ownerID uuid.UUID) ([]models.Transaction, error) {
	var out []models.Transaction
	for i := len(v.st.transactions) - 1; i >= 0; i-- {
		if t := v.st.transactions[i]; t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (v *view) SetWorthIt(_ context.Context, ownerID, id uuid.UUID, worthIt bool) (models.Transaction, error) {
	for i, t := range v.st.transactions {
		if t.ID == id && t.OwnerID == ownerID {
			if t.Kind != models.KindDebit {
				return models.Transaction{}, repository.ErrNotDebit
			}
			flag := worthIt
			t.WorthIt = &flag
			v.st.transactions[i] = t
			return t, nil
		}
	}
	return models.Transaction{}, repository.ErrTransactionNotFound
}

func (v *view) DistinctCategories(_ context.Context, ownerID uuid.UUID, kind models.TransactionKind) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range v.st.transactions {
		if t.OwnerID != ownerID || t.Kind != kind || t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	slices.Sort(out)
	return out, nil
}

func (v *view) ListContainers(_ context.Context, ownerID uuid.UUID) ([]models.Container, error) {
	var out []models.Container
	for _, c := range v.st.containers {
		if c.OwnerID == ownerID && !c.Deleted {
			out = append(out, c)
		}
	}
	return out, nil
}

func (v *view) containerIndex(ownerID, id uuid.UUID) (int, error) {
	for i, c := range v.st.containers {
		if c.ID == id && c.OwnerID == ownerID && !c.Deleted {
			return i, nil
		}
	}
	return -1, repository.ErrContainerNotFound
}

func (v *view) GetContainer(_ context.Context, ownerID, id uuid.UUID) (models.Container, error) {
	i, err := v.containerIndex(ownerID, id)
	if err != nil {
		return models.Container{}, err
	}
	return v.st.containers[i], nil
}

func (v *view) Occupancy(_ context.Context, ownerID uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for _, c := range v.st.creatures {
		if c.OwnerID == ownerID && !c.Retired {
			out[c.ContainerID]++
		}
	}
	return out, nil
}

func (v *view) InsertContainers(_ context.Context, containers []models.Container) ([]models.Container, error) {
	out := make([]models.Container, 0, len(containers))
	now := v.now()
	for _, c := range containers {
		c.ID = uuid.New()
		c.CreatedAt = now
		v.st.containers = append(v.st.containers, c)
		out = append(out, c)
	}
	return out, nil
}

func (v *view) SetContainerPosition(_ context.Context, ownerID, id uuid.UUID, x, y float64) (models.Container, error) {
	i, err := v.containerIndex(ownerID, id)
	if err != nil {
		return models.Container{}, err
	}
	v.st.containers[i].XPct = x
	v.st.containers[i].YPct = y
	return v.st.containers[i], nil
}

func (v *view) RenameContainer(_ context.Context, ownerID, id uuid.UUID, name string) (models.Container, error) {
	i, err := v.containerIndex(ownerID, id)
	if err != nil {
		return models.Container{}, err
	}
	v.st.containers[i].Name = name
	return v.st.containers[i], nil
}

func (v *view) SetContainerCapacity(_ context.Context, ownerID, id uuid.UUID, capacity int) error {
	i, err := v.containerIndex(ownerID, id)
	if err != nil {
		return err
	}
	v.st.containers[i].Capacity = capacity
	return nil
}

func (v *view) SoftDeleteContainer(_ context.Context, ownerID, id uuid.UUID) error {
	i, err := v.containerIndex(ownerID, id)
	if err != nil {
		return err
	}
	v.st.containers[i].Deleted = true
	return nil
}

func (v *view) DeleteContainer(_ context.Context, ownerID, id uuid.UUID) error {
	i, err := v.containerIndex(ownerID, id)
	if err != nil {
		return err
	}
	v.st.containers = slices.Delete(v.st.containers, i, i+1)
	return nil
}

func (v *view) ListAliveCreatures(_ context.Context, ownerID uuid.UUID) ([]models.Creature, error) {
	var out []models.Creature
	for _, c := range v.st.creatures {
		if c.OwnerID == ownerID && !c.Retired {
			out = append(out, c)
		}
	}
	return out, nil
}

func (v *view) ListContainerCreatures(_ context.Context, ownerID, containerID uuid.UUID) ([]models.Creature, error) {
	var out []models.Creature
	for _, c := range v.st.creatures {
		if c.OwnerID == ownerID && c.ContainerID == containerID && !c.Retired {
			out = append(out, c)
		}
	}
	return out, nil
}

func (v *view) creatureIndex(ownerID, id uuid.UUID) (int, error) {
	for i, c := range v.st.creatures {
		if c.ID == id && c.OwnerID == ownerID && !c.Retired {
			return i, nil
		}
	}
	return -1, repository.ErrCreatureNotFound
}

func (v *view) GetCreature(_ context.Context, ownerID, id uuid.UUID) (models.Creature, error) {
	i, err := v.creatureIndex(ownerID, id)
	if err != nil {
		return models.Creature{}, err
	}
	return v.st.creatures[i], nil
}

func (v *view) InsertCreatures(_ context.Context, creatures []models.Creature) ([]models.Creature, error) {
	out := make([]models.Creature, 0, len(creatures))
	now := v.now()
	for _, c := range creatures {
		c.ID = uuid.New()
		c.Dialogues = slices.Clone(c.Dialogues)
		c.CreatedAt = now
		c.UpdatedAt = now
		v.st.creatures = append(v.st.creatures, c)
		out = append(out, c)
	}
	return out, nil
}

func (v *view) RetireCreatures(_ context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	now := v.now()
	for i, c := range v.st.creatures {
		if c.OwnerID == ownerID && !c.Retired && slices.Contains(ids, c.ID) {
			v.st.creatures[i].Retired = true
			v.st.creatures[i].UpdatedAt = now
		}
	}
	return nil
}

func (v *view) RenameCreature(_ context.Context, ownerID, id uuid.UUID, name string) (models.Creature, error) {
	i, err := v.creatureIndex(ownerID, id)
	if err != nil {
		return models.Creature{}, err
	}
	v.st.creatures[i].Name = name
	v.st.creatures[i].UpdatedAt = v.now()
	return v.st.creatures[i], nil
}

func (v *view) MoveCreature(_ context.Context, ownerID, id, containerID uuid.UUID) (models.Creature, error) {
	i, err := v.creatureIndex(ownerID, id)
	if err != nil {
		return models.Creature{}, err
	}
	v.st.creatures[i].ContainerID = containerID
	v.st.creatures[i].UpdatedAt = v.now()
	return v.st.creatures[i], nil
}

func (v *view) ReassignCreatures(_ context.Context, ownerID, fromID, toID uuid.UUID) (int64, error) {
	var n int64
	now := v.now()
	for i, c := range v.st.creatures {
		if c.OwnerID == ownerID && c.ContainerID == fromID {
			v.st.creatures[i].ContainerID = toID
			v.st.creatures[i].UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (v *view) UnlockedSprites(_ context.Context, ownerID uuid.UUID) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range v.st.creatures {
		if c.OwnerID != ownerID || c.Sprite == "" {
			continue
		}
		if _, ok := seen[c.Sprite]; ok {
			continue
		}
		seen[c.Sprite] = struct{}{}
		out = append(out, c.Sprite)
	}
	slices.Sort(out)
	return out, nil
}
