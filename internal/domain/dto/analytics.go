package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// swagger:model
type AnalyticsSummary struct {
	ThisWeek         WeekSpend       `json:"this_week"`
	WeeklyComparison []WeeklySpend   `json:"weekly_comparison"`
	ThisMonth        MonthSummary    `json:"this_month"`
	Categories       CategorySummary `json:"categories"`
	WorthIt          WorthItSummary  `json:"worth_it"`
}

type WeekSpend struct {
	Spent decimal.Decimal `json:"spent"`
	Start time.Time       `json:"start"`
}

type WeeklySpend struct {
	Week  string          `json:"week"`
	Spent decimal.Decimal `json:"spent"`
}

type MonthSummary struct {
	Spent  decimal.Decimal `json:"spent"`
	Income decimal.Decimal `json:"income"`
	Net    decimal.Decimal `json:"net"`
	Start  time.Time       `json:"start"`
}

type CategorySummary struct {
	MostUsed          *MostUsedCategory `json:"most_used"`
	SpendingBreakdown []CategorySpend   `json:"spending_breakdown"`
}

type MostUsedCategory struct {
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type CategorySpend struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

type WorthItSummary struct {
	WorthIt          int             `json:"worth_it"`
	NotWorthIt       int             `json:"not_worth_it"`
	WorthItAmount    decimal.Decimal `json:"worth_it_amount"`
	NotWorthItAmount decimal.Decimal `json:"not_worth_it_amount"`
}
