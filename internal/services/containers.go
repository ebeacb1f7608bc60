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

type ContainerService struct {
	log      *slog.Logger
	store    repository.Store
	rng      world.Rand
	recorder Recorder
}

func NewContainerService(log *slog.Logger, store repository.Store, rng world.Rand, recorder Recorder) *ContainerService {
	if rng == nil {
		rng = world.DefaultRand()
	}
	return &ContainerService{
		log:      log,
		store:    store,
		rng:      rng,
		recorder: recorderOrNop(recorder),
	}
}

// List returns live containers in creation order with their live occupancy.
func (s *ContainerService) List(ctx context.Context, ownerID uuid.UUID) ([]dto.ContainerView, error) {
	const op = "services.ContainerService.List"

	containers, err := s.store.ListContainers(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	occupancy, err := s.store.Occupancy(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	views := make([]dto.ContainerView, 0, len(containers))
	for _, c := range containers {
		views = append(views, dto.ContainerView{Container: c, Occupancy: occupancy[c.ID]})
	}

	return views, nil
}

func (s *ContainerService) Get(ctx context.Context, ownerID, id uuid.UUID) (dto.ContainerDetails, error) {
	const op = "services.ContainerService.Get"

	c, err := s.store.GetContainer(ctx, ownerID, id)
	if err != nil {
		return dto.ContainerDetails{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	creatures, err := s.store.ListContainerCreatures(ctx, ownerID, id)
	if err != nil {
		return dto.ContainerDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	if creatures == nil {
		creatures = []models.Creature{}
	}

	return dto.ContainerDetails{Container: c, Creatures: creatures}, nil
}

// SetPosition moves a container. Missing coordinates keep their value; the rest are clamped to [0,100].
func (s *ContainerService) SetPosition(ctx context.Context, ownerID, id uuid.UUID, x, y *float64) (models.Container, error) {
	const op = "services.ContainerService.SetPosition"

	var out models.Container
	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		c, err := tx.GetContainer(ctx, ownerID, id)
		if err != nil {
			return err
		}

		nx, ny := c.XPct, c.YPct
		if x != nil {
			nx = world.ClampPercent(*x)
		}
		if y != nil {
			ny = world.ClampPercent(*y)
		}

		out, err = tx.SetContainerPosition(ctx, ownerID, id, nx, ny)
		return err
	})
	if err != nil {
		return models.Container{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	return out, nil
}

func (s *ContainerService) Rename(ctx context.Context, ownerID, id uuid.UUID, name string) (models.Container, error) {
	const op = "services.ContainerService.Rename"

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Container{}, fmt.Errorf("%s: %w", op, ErrEmptyName)
	}

	c, err := s.store.RenameContainer(ctx, ownerID, id, name)
	if err != nil {
		return models.Container{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	return c, nil
}

// Create places a new empty default house at a random spot.
func (s *ContainerService) Create(ctx context.Context, ownerID uuid.UUID) (models.Container, error) {
	const op = "services.ContainerService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
	)

	x, y := world.SpawnPosition(s.rng)

	var out models.Container
	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		created, err := tx.InsertContainers(ctx, []models.Container{{
			OwnerID:  ownerID,
			Name:     world.DefaultContainerName,
			XPct:     x,
			YPct:     y,
			Capacity: world.DefaultCapacity,
		}})
		if err != nil {
			return err
		}
		out = created[0]
		return nil
	})
	if err != nil {
		log.Error("failed to create container", slog.String("error", err.Error()))
		return models.Container{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	s.recorder.ContainersCreated(1)
	log.Info("container created", slog.String("container_id", out.ID.String()))

	return out, nil
}

// Merge folds a full source container into an equally sized full target, doubling the
// target's capacity. Every creature of the source, retired ones included, moves to the
// target and the source row is removed.
func (s *ContainerService) Merge(ctx context.Context, ownerID, sourceID, targetID uuid.UUID) (dto.MergeResponse, error) {
	const op = "services.ContainerService.Merge"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.String("source_id", sourceID.String()),
		slog.String("target_id", targetID.String()),
	)

	if sourceID == targetID {
		return dto.MergeResponse{}, fmt.Errorf("%s: %w", op, ErrSameContainer)
	}

	log.Info("merging containers")

	var out dto.MergeResponse
	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		source, err := tx.GetContainer(ctx, ownerID, sourceID)
		if err != nil {
			return err
		}
		target, err := tx.GetContainer(ctx, ownerID, targetID)
		if err != nil {
			return err
		}
		occupancy, err := tx.Occupancy(ctx, ownerID)
		if err != nil {
			return err
		}

		if err := checkMerge(source, target, occupancy[source.ID], occupancy[target.ID]); err != nil {
			return err
		}

		target.Capacity *= 2
		if err := tx.SetContainerCapacity(ctx, ownerID, target.ID, target.Capacity); err != nil {
			return err
		}

		moved, err := tx.ReassignCreatures(ctx, ownerID, source.ID, target.ID)
		if err != nil {
			return err
		}

		if err := tx.DeleteContainer(ctx, ownerID, source.ID); err != nil {
			return err
		}

		out = dto.MergeResponse{Message: "containers merged", Container: target, Moved: moved}
		return nil
	})
	if err != nil {
		log.Info("merge rejected", slog.String("error", err.Error()))
		return dto.MergeResponse{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	s.recorder.ContainerMerged()
	log.Info("containers merged", slog.Int("capacity", out.Container.Capacity), slog.Int64("moved", out.Moved))

	return out, nil
}

func checkMerge(source, target models.Container, sourceCount, targetCount int) error {
	if source.Capacity != target.Capacity {
		return ErrCapacityMismatch
	}
	if !world.ValidCapacity(source.Capacity) {
		return ErrInvalidCapacity
	}
	if source.Capacity >= world.MaxCapacity {
		return ErrMaxCapacity
	}
	if sourceCount < source.Capacity || targetCount < target.Capacity {
		return &Error{
			Kind: ErrNotFull.Kind,
			Msg:  ErrNotFull.Msg,
			Details: map[string]string{
				"source": fmt.Sprintf("%d/%d", sourceCount, source.Capacity),
				"target": fmt.Sprintf("%d/%d", targetCount, target.Capacity),
			},
		}
	}
	return nil
}

// Delete soft-deletes an empty container.
func (s *ContainerService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "services.ContainerService.Delete"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.String("container_id", id.String()),
	)

	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		if _, err := tx.GetContainer(ctx, ownerID, id); err != nil {
			return err
		}

		occupancy, err := tx.Occupancy(ctx, ownerID)
		if err != nil {
			return err
		}
		if occupancy[id] > 0 {
			return ErrContainerNotEmpty
		}

		return tx.SoftDeleteContainer(ctx, ownerID, id)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}

	log.Info("container deleted")

	return nil
}
