package repository

import (
	"context"

	"coinlings/internal/domain/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Users covers account records.
type Users interface {
	CreateUser(ctx context.Context, email string, passHash []byte) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, ownerID uuid.UUID) (models.User, error)
}

// Ledger covers the owner's transaction log.
type Ledger interface {
	InsertTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]models.Transaction, error)
	SetWorthIt(ctx context.Context, ownerID, id uuid.UUID, worthIt bool) (models.Transaction, error)
	DistinctCategories(ctx context.Context, ownerID uuid.UUID, kind models.TransactionKind) ([]string, error)
}

// World covers houses and creatures. Every query is scoped to one owner.
type World interface {
	// ListContainers returns live containers in creation order.
	ListContainers(ctx context.Context, ownerID uuid.UUID) ([]models.Container, error)
	// GetContainer returns a live container.
	GetContainer(ctx context.Context, ownerID, id uuid.UUID) (models.Container, error)
	// Occupancy counts live creatures per container.
	Occupancy(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]int, error)
	// InsertContainers persists containers and returns them with ids, in input order.
	InsertContainers(ctx context.Context, containers []models.Container) ([]models.Container, error)
	SetContainerPosition(ctx context.Context, ownerID, id uuid.UUID, x, y float64) (models.Container, error)
	RenameContainer(ctx context.Context, ownerID, id uuid.UUID, name string) (models.Container, error)
	SetContainerCapacity(ctx context.Context, ownerID, id uuid.UUID, capacity int) error
	SoftDeleteContainer(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteContainer(ctx context.Context, ownerID, id uuid.UUID) error

	// ListAliveCreatures returns live creatures oldest first.
	ListAliveCreatures(ctx context.Context, ownerID uuid.UUID) ([]models.Creature, error)
	ListContainerCreatures(ctx context.Context, ownerID, containerID uuid.UUID) ([]models.Creature, error)
	GetCreature(ctx context.Context, ownerID, id uuid.UUID) (models.Creature, error)
	// InsertCreatures persists creatures and returns them with ids, in input order.
	InsertCreatures(ctx context.Context, creatures []models.Creature) ([]models.Creature, error)
	RetireCreatures(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error
	RenameCreature(ctx context.Context, ownerID, id uuid.UUID, name string) (models.Creature, error)
	MoveCreature(ctx context.Context, ownerID, id, containerID uuid.UUID) (models.Creature, error)
	// ReassignCreatures moves every creature of one container, retired ones included.
	ReassignCreatures(ctx context.Context, ownerID, fromID, toID uuid.UUID) (int64, error)
	// UnlockedSprites lists the distinct sprites of all the owner's creatures.
	UnlockedSprites(ctx context.Context, ownerID uuid.UUID) ([]string, error)
}

// OwnerTx is the unit of work handed to WithinOwnerTx. Its reads and writes are atomic
// and no other unit of work for the same owner runs concurrently.
type OwnerTx interface {
	Ledger
	World

	// LockedUser returns the owner's row as seen under the lock.
	LockedUser(ctx context.Context) (models.User, error)
	SetBalance(ctx context.Context, balance decimal.Decimal) error
}

type TxFunc func(ctx context.Context, tx OwnerTx) error

// Store is what every storage driver provides.
type Store interface {
	Users
	Ledger
	World

	// WithinOwnerTx runs fn atomically under the owner's lock. fn's error rolls everything back.
	WithinOwnerTx(ctx context.Context, ownerID uuid.UUID, fn TxFunc) error
	Close() error
}
