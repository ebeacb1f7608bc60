package services

import (
	"sort"
	"time"

	"coinlings/internal/domain/dto"
	"coinlings/internal/domain/models"
	"github.com/shopspring/decimal"
)

var weekLabels = [4]string{"3 weeks ago", "2 weeks ago", "Last week", "This week"}

// WeekStart is Sunday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

type categoryStat struct {
	name  string
	count int
	total decimal.Decimal
}

// BuildSummary reduces a transaction log to the analytics summary as seen at now.
// Spending, categories and worth-it only look at debits.
func BuildSummary(txs []models.Transaction, now time.Time) dto.AnalyticsSummary {
	thisWeek := WeekStart(now)
	weekStarts := [4]time.Time{
		thisWeek.AddDate(0, 0, -21),
		thisWeek.AddDate(0, 0, -14),
		thisWeek.AddDate(0, 0, -7),
		thisWeek,
	}
	thisMonth := MonthStart(now)

	var weekly [4]decimal.Decimal
	monthSpent, monthIncome := decimal.Zero, decimal.Zero
	worth := dto.WorthItSummary{WorthItAmount: decimal.Zero, NotWorthItAmount: decimal.Zero}
	stats := make(map[string]*categoryStat)

	for _, t := range txs {
		date := t.Date.In(now.Location())

		if t.Kind == models.KindCredit {
			if !date.Before(thisMonth) {
				monthIncome = monthIncome.Add(t.Amount)
			}
			continue
		}
		if t.Kind != models.KindDebit {
			continue
		}

		if !date.Before(thisMonth) {
			monthSpent = monthSpent.Add(t.Amount)
		}

		// newest bucket first; the current week has no upper bound
		for i := len(weekStarts) - 1; i >= 0; i-- {
			if !date.Before(weekStarts[i]) {
				weekly[i] = weekly[i].Add(t.Amount)
				break
			}
		}

		if t.Category != "" {
			st, ok := stats[t.Category]
			if !ok {
				st = &categoryStat{name: t.Category, total: decimal.Zero}
				stats[t.Category] = st
			}
			st.count++
			st.total = st.total.Add(t.Amount)
		}

		if t.WorthIt != nil {
			if *t.WorthIt {
				worth.WorthIt++
				worth.WorthItAmount = worth.WorthItAmount.Add(t.Amount)
			} else {
				worth.NotWorthIt++
				worth.NotWorthItAmount = worth.NotWorthItAmount.Add(t.Amount)
			}
		}
	}

	ranked := make([]*categoryStat, 0, len(stats))
	for _, st := range stats {
		ranked = append(ranked, st)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if c := a.total.Cmp(b.total); c != 0 {
			return c > 0
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return a.name < b.name
	})

	categories := dto.CategorySummary{SpendingBreakdown: make([]dto.CategorySpend, 0, len(ranked))}
	for _, st := range ranked {
		categories.SpendingBreakdown = append(categories.SpendingBreakdown, dto.CategorySpend{
			Name:   st.name,
			Amount: st.total,
			Count:  st.count,
		})
	}
	if len(ranked) > 0 {
		categories.MostUsed = &dto.MostUsedCategory{Name: ranked[0].name, Count: ranked[0].count, Total: ranked[0].total}
	}

	comparison := make([]dto.WeeklySpend, len(weekLabels))
	for i, label := range weekLabels {
		comparison[i] = dto.WeeklySpend{Week: label, Spent: weekly[i]}
	}

	return dto.AnalyticsSummary{
		ThisWeek:         dto.WeekSpend{Spent: weekly[3], Start: thisWeek},
		WeeklyComparison: comparison,
		ThisMonth: dto.MonthSummary{
			Spent:  monthSpent,
			Income: monthIncome,
			Net:    monthIncome.Sub(monthSpent),
			Start:  thisMonth,
		},
		Categories: categories,
		WorthIt:    worth,
	}
}
