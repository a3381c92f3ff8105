// Package expenses implements the expense ledger of a building: CRUD over
// dated, categorized expense records, the provider submission path, the
// pending/approved workflow, and the period filters that feed settlement.
package expenses

import (
	"sort"
	"strings"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

// CategoryOther absorbs expenses with an empty or unknown category.
const CategoryOther = "otros"

// InPeriod filters expenses by the calendar month and year of their date.
// With approvedOnly set, pending submissions are excluded; every computation
// that feeds a settlement must pass approvedOnly=true.
func InPeriod(list []consortium.Expense, period shared.Period, approvedOnly bool) []consortium.Expense {
	var out []consortium.Expense
	for _, e := range list {
		if !period.Contains(e.Date) {
			continue
		}
		if approvedOnly && e.Status != consortium.ExpenseApproved {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// TotalForPeriod sums the approved expenses of one period.
func TotalForPeriod(list []consortium.Expense, period shared.Period) money.Money {
	var total money.Money
	for _, e := range InPeriod(list, period, true) {
		total += e.Amount
	}
	return total
}

// CategoryTotal aggregates one category for reporting.
type CategoryTotal struct {
	Total money.Money `json:"total"`
	Count int         `json:"count"`
}

// Categorize groups expenses by category. Empty categories coerce to
// CategoryOther; matching is case-insensitive on the trimmed category key.
func Categorize(list []consortium.Expense) map[string]CategoryTotal {
	out := make(map[string]CategoryTotal, len(list))
	for _, e := range list {
		key := strings.ToLower(strings.TrimSpace(e.Category))
		if key == "" {
			key = CategoryOther
		}
		agg := out[key]
		agg.Total += e.Amount
		agg.Count++
		out[key] = agg
	}
	return out
}
