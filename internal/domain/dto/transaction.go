package dto

import (
	"time"

	"coinlings/internal/domain/models"
	"github.com/shopspring/decimal"
)

// swagger:model
type RecordTransactionRequest struct {
	Kind     models.TransactionKind `json:"kind" binding:"required" example:"credit"`
	Amount   decimal.Decimal        `json:"amount" swaggertype:"string" example:"1500.00"`
	Date     *time.Time             `json:"date,omitempty"`
	Notes    string                 `json:"notes,omitempty"`
	Category string                 `json:"category,omitempty" example:"Salary"`
	WorthIt  *bool                  `json:"worth_it,omitempty"`
}

// swagger:model
type RecordTransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
	Balance     decimal.Decimal    `json:"balance"`
	Created     []models.Creature  `json:"created"`
	Retired     []models.Creature  `json:"retired"`
}

// swagger:model
type WorthItRequest struct {
	WorthIt *bool `json:"worth_it" binding:"required"`
}

// swagger:model
type CategoriesResponse struct {
	Default []string `json:"default"`
	Custom  []string `json:"custom"`
}
