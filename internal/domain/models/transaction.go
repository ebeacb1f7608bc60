package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"time"
)

type TransactionKind string

const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

func (k TransactionKind) Valid() bool {
	return k == KindCredit || k == KindDebit
}

type Transaction struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OwnerID   uuid.UUID       `json:"owner_id" db:"owner_id"`
	Kind      TransactionKind `json:"kind" db:"kind"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      time.Time       `json:"date" db:"date"`
	Notes     string          `json:"notes" db:"notes"`
	Category  string          `json:"category,omitempty" db:"category"`
	WorthIt   *bool           `json:"worth_it,omitempty" db:"worth_it"` // debit only
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Signed returns the amount as it applies to the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
