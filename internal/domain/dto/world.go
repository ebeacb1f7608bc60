package dto

import (
	"coinlings/internal/domain/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// swagger:model
type ContainerView struct {
	models.Container
	Occupancy int `json:"occupancy"`
}

// swagger:model
type ContainerDetails struct {
	Container models.Container  `json:"container"`
	Creatures []models.Creature `json:"creatures"`
}

// swagger:model
type PositionRequest struct {
	XPct *float64 `json:"x_pct"`
	YPct *float64 `json:"y_pct"`
}

// swagger:model
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// swagger:model
type MergeRequest struct {
	SourceID uuid.UUID `json:"source_id" binding:"required"`
	TargetID uuid.UUID `json:"target_id" binding:"required"`
}

// swagger:model
type MergeResponse struct {
	Message   string           `json:"message"`
	Container models.Container `json:"container"`
	Moved     int64            `json:"moved"`
}

// swagger:model
type ContainerResponse struct {
	Container models.Container `json:"container"`
}

// swagger:model
type MessageResponse struct {
	Message string `json:"message"`
}

// swagger:model
type CreateCreatureRequest struct {
	Rarity models.Rarity `json:"rarity,omitempty" example:"rare"`
}

// swagger:model
type MoveCreatureRequest struct {
	ContainerID uuid.UUID `json:"container_id" binding:"required"`
}

// swagger:model
type SyncResponse struct {
	Balance decimal.Decimal   `json:"balance"`
	Created []models.Creature `json:"created"`
	Retired []models.Creature `json:"retired"`
}

// swagger:model
type SpriteCatalog map[models.Rarity][]string

// swagger:model
type UnlockedResponse struct {
	Unlocked []string `json:"unlocked"`
}
