package services

import (
	"context"
	"fmt"
	"log/slog"

	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"coinlings/internal/world"
	"github.com/google/uuid"
)

// Diff is exactly what one reconciliation changed.
type Diff struct {
	Created []models.Creature `json:"created"`
	Retired []models.Creature `json:"retired"`

	// Containers are the houses staged and persisted for Created.
	Containers []models.Container `json:"-"`
}

// record counts a committed diff.
func (d Diff) record(rec Recorder) {
	rec.ContainersCreated(len(d.Containers))
	rec.CreaturesBorn(len(d.Created))
	rec.CreaturesRetired(len(d.Retired))
}

// Reconciler brings the number of living creatures to a desired count. It only ever
// runs inside an owner unit of work, so it sees and writes one consistent snapshot.
type Reconciler struct {
	log     *slog.Logger
	rng     world.Rand
	factory *world.Factory
}

func NewReconciler(log *slog.Logger, rng world.Rand) *Reconciler {
	if rng == nil {
		rng = world.DefaultRand()
	}
	return &Reconciler{
		log:     log,
		rng:     rng,
		factory: world.NewFactory(rng),
	}
}

func (r *Reconciler) Reconcile(ctx context.Context, tx repository.OwnerTx, ownerID uuid.UUID, desired int) (Diff, error) {
	const op = "services.Reconciler.Reconcile"

	log := r.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.Int("desired", desired),
	)

	if desired < 0 {
		desired = 0
	}

	alive, err := tx.ListAliveCreatures(ctx, ownerID)
	if err != nil {
		return Diff{}, fmt.Errorf("%s: %w", op, err)
	}

	current := len(alive)
	switch {
	case desired > current:
		log.Info("growing population", slog.Int("current", current))

		created, containers, err := r.grow(ctx, tx, ownerID, desired-current)
		if err != nil {
			log.Error("failed to grow population", slog.String("error", err.Error()))
			return Diff{}, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("population grown", slog.Int("created", len(created)), slog.Int("containers", len(containers)))
		return Diff{Created: created, Retired: []models.Creature{}, Containers: containers}, nil

	case desired < current:
		log.Info("shrinking population", slog.Int("current", current))

		retired, err := r.shrink(ctx, tx, ownerID, alive, current-desired)
		if err != nil {
			log.Error("failed to shrink population", slog.String("error", err.Error()))
			return Diff{}, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("population shrunk", slog.Int("retired", len(retired)))
		return Diff{Created: []models.Creature{}, Retired: retired}, nil
	}

	return Diff{Created: []models.Creature{}, Retired: []models.Creature{}}, nil
}

// Adopt places one new creature of the given rarity (rolled when empty) first-fit,
// staging a house when every live one is full. It does not look at the balance.
func (r *Reconciler) Adopt(ctx context.Context, tx repository.OwnerTx, ownerID uuid.UUID, rarity models.Rarity) (Diff, error) {
	const op = "services.Reconciler.Adopt"

	c := r.factory.Build(ownerID, r.factory.Personality(), rarity)

	created, containers, err := r.place(ctx, tx, ownerID, []models.Creature{c})
	if err != nil {
		return Diff{}, fmt.Errorf("%s: %w", op, err)
	}

	return Diff{Created: created, Retired: []models.Creature{}, Containers: containers}, nil
}

func (r *Reconciler) grow(ctx context.Context, tx repository.OwnerTx, ownerID uuid.UUID, n int) ([]models.Creature, []models.Container, error) {
	creatures := make([]models.Creature, n)
	for i := range creatures {
		creatures[i] = r.factory.Spawn(ownerID)
	}

	return r.place(ctx, tx, ownerID, creatures)
}

// place assigns containers to creatures and writes both in one batch.
func (r *Reconciler) place(ctx context.Context, tx repository.OwnerTx, ownerID uuid.UUID, creatures []models.Creature) ([]models.Creature, []models.Container, error) {
	n := len(creatures)

	containers, err := tx.ListContainers(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	occupancy, err := tx.Occupancy(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	alloc := world.NewAllocator(r.rng, containers, occupancy)
	placements := make([]world.Placement, n)
	for i := range placements {
		placements[i] = alloc.Place()
	}

	if err := world.CheckCapacity(containers, alloc.Occupancy()); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCapacityViolation, err)
	}

	// houses go in first so the creatures below can reference them
	staged := alloc.Staged()
	stagedIDs := make([]uuid.UUID, len(staged))
	var inserted []models.Container
	if len(staged) > 0 {
		rows := make([]models.Container, len(staged))
		for i, s := range staged {
			rows[i] = models.Container{
				OwnerID:  ownerID,
				Name:     s.Name,
				XPct:     s.XPct,
				YPct:     s.YPct,
				Capacity: s.Capacity,
			}
		}

		inserted, err = tx.InsertContainers(ctx, rows)
		if err != nil {
			return nil, nil, err
		}
		for i, c := range inserted {
			stagedIDs[i] = c.ID
		}
	}

	for i, p := range placements {
		if p.IsStaged() {
			creatures[i].ContainerID = stagedIDs[p.Staged]
		} else {
			creatures[i].ContainerID = p.ContainerID
		}
	}

	created, err := tx.InsertCreatures(ctx, creatures)
	if err != nil {
		return nil, nil, err
	}

	return created, inserted, nil
}

// shrink retires the oldest creatures first; alive is ordered oldest first.
func (r *Reconciler) shrink(ctx context.Context, tx repository.OwnerTx, ownerID uuid.UUID, alive []models.Creature, n int) ([]models.Creature, error) {
	victims := make([]models.Creature, n)
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		victims[i] = alive[i]
		victims[i].Retired = true
		ids[i] = alive[i].ID
	}

	if err := tx.RetireCreatures(ctx, ownerID, ids); err != nil {
		return nil, err
	}

	return victims, nil
}
