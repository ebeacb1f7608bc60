package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"coinlings/internal/domain/dto"
	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"coinlings/internal/world"
	"github.com/google/uuid"
)

type CreatureService struct {
	log           *slog.Logger
	store         repository.Store
	reconciler    *Reconciler
	maxPopulation int
	recorder      Recorder
}

func NewCreatureService(log *slog.Logger, store repository.Store, reconciler *Reconciler, maxPopulation int,
	recorder Recorder) *CreatureService {
	return &CreatureService{
		log:           log,
		store:         store,
		reconciler:    reconciler,
		maxPopulation: maxPopulation,
		recorder:      recorderOrNop(recorder),
	}
}

// List returns living creatures, oldest first.
func (s *CreatureService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Creature, error) {
	const op = "services.CreatureService.List"

	creatures, err := s.store.ListAliveCreatures(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if creatures == nil {
		creatures = []models.Creature{}
	}

	return creatures, nil
}

// Create adopts one creature outside the balance rule, for example a reward. An empty
// rarity is rolled. The next reconciliation may retire it again like any other creature.
func (s *CreatureService) Create(ctx context.Context, ownerID uuid.UUID, rarity models.Rarity) (models.Creature, error) {
	const op = "services.CreatureService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.String("rarity", string(rarity)),
	)

	if rarity != "" && !rarity.Valid() {
		return models.Creature{}, fmt.Errorf("%s: %w", op, ErrInvalidRarity)
	}

	var diff Diff
	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		alive, err := tx.ListAliveCreatures(ctx, ownerID)
		if err != nil {
			return err
		}
		if len(alive) >= world.Ceiling(s.maxPopulation) {
			return ErrPopulationLimit
		}

		diff, err = s.reconciler.Adopt(ctx, tx, ownerID, rarity)
		return err
	})
	if err != nil {
		log.Info("creature not created", slog.String("error", err.Error()))
		return models.Creature{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	diff.record(s.recorder)
	log.Info("creature created", slog.Int("containers", len(diff.Containers)))

	return diff.Created[0], nil
}

// Retire marks one living creature as retired. The balance is not touched.
func (s *CreatureService) Retire(ctx context.Context, ownerID, id uuid.UUID) (models.Creature, error) {
	const op = "services.CreatureService.Retire"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.String("creature_id", id.String()),
	)

	var out models.Creature
	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		c, err := tx.GetCreature(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if err := tx.RetireCreatures(ctx, ownerID, []uuid.UUID{id}); err != nil {
			return err
		}
		c.Retired = true
		out = c
		return nil
	})
	if err != nil {
		return models.Creature{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	s.recorder.CreaturesRetired(1)
	log.Info("creature retired")

	return out, nil
}

func (s *CreatureService) Rename(ctx context.Context, ownerID, id uuid.UUID, name string) (models.Creature, error) {
	const op = "services.CreatureService.Rename"

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Creature{}, fmt.Errorf("%s: %w", op, ErrEmptyName)
	}

	c, err := s.store.RenameCreature(ctx, ownerID, id, name)
	if err != nil {
		return models.Creature{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	return c, nil
}

// Move puts a living creature into another live container that still has room.
// Moving into the current container changes nothing.
func (s *CreatureService) Move(ctx context.Context, ownerID, id, containerID uuid.UUID) (models.Creature, error) {
	const op = "services.CreatureService.Move"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.String("creature_id", id.String()),
		slog.String("container_id", containerID.String()),
	)

	var out models.Creature
	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		c, err := tx.GetCreature(ctx, ownerID, id)
		if err != nil {
			return err
		}

		target, err := tx.GetContainer(ctx, ownerID, containerID)
		if err != nil {
			return err
		}

		if c.ContainerID == target.ID {
			out = c
			return nil
		}

		occupancy, err := tx.Occupancy(ctx, ownerID)
		if err != nil {
			return err
		}
		if occupancy[target.ID] >= target.Capacity {
			return ErrContainerFull
		}

		out, err = tx.MoveCreature(ctx, ownerID, id, target.ID)
		return err
	})
	if err != nil {
		log.Info("move rejected", slog.String("error", err.Error()))
		return models.Creature{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	log.Info("creature moved")

	return out, nil
}

// Sync reconciles the population against the stored balance.
func (s *CreatureService) Sync(ctx context.Context, ownerID uuid.UUID) (dto.SyncResponse, error) {
	const op = "services.CreatureService.Sync"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
	)

	var out dto.SyncResponse
	var diff Diff
	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		user, err := tx.LockedUser(ctx)
		if err != nil {
			return err
		}

		diff, err = s.reconciler.Reconcile(ctx, tx, ownerID, world.DesiredPopulation(user.Balance, s.maxPopulation))
		if err != nil {
			return err
		}

		out = dto.SyncResponse{Balance: user.Balance, Created: diff.Created, Retired: diff.Retired}
		return nil
	})
	if err != nil {
		log.Error("failed to sync population", slog.String("error", err.Error()))
		return dto.SyncResponse{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	diff.record(s.recorder)
	log.Info("population synced", slog.Int("created", len(out.Created)), slog.Int("retired", len(out.Retired)))

	return out, nil
}
