package world

import (
	"fmt"

	"coinlings/internal/domain/models"
	"github.com/google/uuid"
)

const (
	DefaultCapacity = 2
	MaxCapacity     = 128
)

var capacityLadder = [...]int{2, 4, 8, 16, 32, 64, 128}

// ValidCapacity reports whether c is a rung of the doubling ladder 2..128.
func ValidCapacity(c int) bool {
	for _, rung := range capacityLadder {
		if rung == c {
			return true
		}
	}
	return false
}

// CheckCapacity returns an error naming the first container whose occupancy exceeds its capacity.
func CheckCapacity(containers []models.Container, occupancy map[uuid.UUID]int) error {
	for _, c := range containers {
		if n := occupancy[c.ID]; n > c.Capacity {
			return fmt.Errorf("container %s (%s) over capacity: %d/%d", c.Name, c.ID, n, c.Capacity)
		}
	}
	return nil
}
