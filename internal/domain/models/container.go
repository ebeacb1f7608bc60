package models

import (
	"github.com/google/uuid"
	"time"
)

// Container is a house on the owner's map. Positions are percentages of the map size.
type Container struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	XPct      float64   `json:"x_pct" db:"x_pct"`
	YPct      float64   `json:"y_pct" db:"y_pct"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Deleted   bool      `json:"deleted" db:"deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
