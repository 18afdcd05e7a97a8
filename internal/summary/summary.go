// Package summary computes the aggregate views over a user's monthly expenses:
// the total, per-category totals and per-category averages with their share of
// the whole.
package summary

import (
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryStat is one category's aggregate value and its percentage of the sum
// of all values in the same result. Value is never rounded; Percentage carries
// two decimal places.
type CategoryStat struct {
	Category   string          `json:"category"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Overview is the dashboard view of one month.
type Overview struct {
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	TotalCents int64          `json:"total_cents"`
	Totals     []CategoryStat `json:"category_totals"`
	Averages   []CategoryStat `json:"category_averages"`
}

// Report is the overview plus the year selector and one page of the month's
// expenses, all read from the same snapshot.
type Report struct {
	Overview
	Years    []int              `json:"years"`
	Expenses expense.PageResult `json:"expenses"`
}

// Lookup finds the stat for category.
func Lookup(stats []CategoryStat, category string) (CategoryStat, bool) {
	for _, s := range stats {
		if s.Category == category {
			return s, true
		}
	}
	return CategoryStat{}, false
}

// withPercentages turns grouped amounts into stats. The denominator is the sum
// of the values themselves; when it is zero every percentage is zero.
func withPercentages(amounts []expense.CategoryAmount) []CategoryStat {
	grand := decimal.Zero
	for _, a := range amounts {
		grand = grand.Add(a.Amount)
	}

	stats := make([]CategoryStat, 0, len(amounts))
	for _, a := range amounts {
		pct := decimal.Zero
		if !grand.IsZero() {
			pct = a.Amount.Mul(hundred).Div(grand).Round(2)
		}
		stats = append(stats, CategoryStat{Category: a.Category, Value: a.Amount, Percentage: pct})
	}
	return stats
}
