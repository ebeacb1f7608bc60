package world

import (
	"coinlings/internal/domain/models"
	"github.com/google/uuid"
)

const DefaultContainerName = "House"

// StagedContainer is a house the allocator wants created. It has no id until persisted.
type StagedContainer struct {
	Name     string
	XPct     float64
	YPct     float64
	Capacity int
}

// Placement names where one new creature goes: an existing container when Staged is
// negative, otherwise the index of a container in Allocator.Staged().
type Placement struct {
	ContainerID uuid.UUID
	Staged      int
}

func (p Placement) IsStaged() bool {
	return p.Staged >= 0
}

type bin struct {
	id        uuid.UUID
	capacity  int
	occupancy int
}

// Allocator is a first-fit packer over a snapshot of the owner's houses. Existing houses
// are filled in the order given (creation order), then houses staged earlier in the same
// batch, and only then a new house is staged.
type Allocator struct {
	rng       Rand
	existing  []bin
	staged    []StagedContainer
	stagedOcc []int
}

// NewAllocator snapshots containers and their live occupancy. Containers must be live
// and already in creation order.
func NewAllocator(rng Rand, containers []models.Container, occupancy map[uuid.UUID]int) *Allocator {
	if rng == nil {
		rng = DefaultRand()
	}

	existing := make([]bin, 0, len(containers))
	for _, c := range containers {
		existing = append(existing, bin{id: c.ID, capacity: c.Capacity, occupancy: occupancy[c.ID]})
	}

	return &Allocator{rng: rng, existing: existing}
}

// Place finds or stages a container with room for one more creature and counts it in.
func (a *Allocator) Place() Placement {
	for i := range a.existing {
		b := &a.existing[i]
		if b.occupancy < b.capacity {
			b.occupancy++
			return Placement{ContainerID: b.id, Staged: -1}
		}
	}

	for i, s := range a.staged {
		if a.stagedOcc[i] < s.Capacity {
			a.stagedOcc[i]++
			return Placement{Staged: i}
		}
	}

	x, y := SpawnPosition(a.rng)
	a.staged = append(a.staged, StagedContainer{
		Name:     DefaultContainerName,
		XPct:     x,
		YPct:     y,
		Capacity: DefaultCapacity,
	})
	a.stagedOcc = append(a.stagedOcc, 1)

	return Placement{Staged: len(a.staged) - 1}
}

// Staged returns the containers staged so far, in staging order.
func (a *Allocator) Staged() []StagedContainer {
	out := make([]StagedContainer, len(a.staged))
	copy(out, a.staged)
	return out
}

// Occupancy returns the planned occupancy of existing containers.
func (a *Allocator) Occupancy() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(a.existing))
	for _, b := range a.existing {
		out[b.id] = b.occupancy
	}
	return out
}

// StagedOccupancy returns the planned occupancy of staged containers by staging index.
func (a *Allocator) StagedOccupancy() []int {
	out := make([]int, len(a.stagedOcc))
	copy(out, a.stagedOcc)
	return out
}
