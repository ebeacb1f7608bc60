package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	// Arrange
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "coinlings.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)

	owner, err := s.CreateUser(ctx, "a@example.com", []byte("hash"))
	require.NoError(t, err)

	err = s.WithinOwnerTx(ctx, owner, func(ctx context.Context, tx repository.OwnerTx) error {
		houses, err := tx.InsertContainers(ctx, []models.Container{{OwnerID: owner, Name: "House", Capacity: 2}})
		if err != nil {
			return err
		}
		if _, err := tx.InsertCreatures(ctx, []models.Creature{{
			OwnerID:     owner,
			ContainerID: houses[0].ID,
			Name:        "Golden Spoon",
			Dialogues:   []string{"Oh, hello."},
			Rarity:      models.RarityCommon,
		}}); err != nil {
			return err
		}
		return tx.SetBalance(ctx, decimal.RequireFromString("1500.25"))
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Act
	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	// Assert
	user, err := reopened.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, owner, user.ID)
	assert.Equal(t, []byte("hash"), user.Password)
	assert.True(t, decimal.RequireFromString("1500.25").Equal(user.Balance))

	alive, err := reopened.ListAliveCreatures(ctx, owner)
	require.NoError(t, err)
	require.Len(t, alive, 1)
	assert.Equal(t, "Golden Spoon", alive[0].Name)
	assert.Equal(t, []string{"Oh, hello."}, alive[0].Dialogues)

	occupancy, err := reopened.Occupancy(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, occupancy[alive[0].ContainerID])
}

func TestSQLite_FailedUnitOfWorkIsNotPersisted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "coinlings.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	owner, err := s.CreateUser(ctx, "a@example.com", []byte("hash"))
	require.NoError(t, err)

	// Act
	err = s.WithinOwnerTx(ctx, owner, func(ctx context.Context, tx repository.OwnerTx) error {
		if err := tx.SetBalance(ctx, decimal.NewFromInt(9000)); err != nil {
			return err
		}
		return repository.ErrContainerNotFound
	})
	require.ErrorIs(t, err, repository.ErrContainerNotFound)
	require.NoError(t, s.Close())

	// Assert
	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	user, err := reopened.GetUserByID(ctx, owner)
	require.NoError(t, err)
	assert.True(t, user.Balance.IsZero())
	assert.Equal(t, path, reopened.Path())
}
