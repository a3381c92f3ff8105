// Package units implements the unit ledger: per-unit ownership coefficients,
// the append-only payment history, and the manual account-state worksheet an
// administrator reconciles by hand.
package units

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

// TotalCoefficient sums the ownership coefficients of all units. Callers
// compare the result against 1 for the integrity check.
func TotalCoefficient(list []consortium.Unit) decimal.Decimal {
	total := decimal.Zero
	for _, u := range list {
		total = total.Add(u.Coefficient)
	}
	return total
}

// SortedPayments returns the unit's payments ordered by date. Storage order
// is insertion order and is never relied on.
func SortedPayments(u consortium.Unit) []consortium.Payment {
	out := append([]consortium.Payment(nil), u.Payments...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// PaymentsInPeriod filters a unit's payment history by calendar month/year.
func PaymentsInPeriod(u consortium.Unit, period shared.Period) []consortium.Payment {
	var out []consortium.Payment
	for _, p := range SortedPayments(u) {
		if period.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// PaidInPeriod sums a unit's payments inside one period.
func PaidInPeriod(u consortium.Unit, period shared.Period) money.Money {
	var total money.Money
	for _, p := range u.Payments {
		if period.Contains(p.Date) {
			total += p.Amount
		}
	}
	return total
}

// TotalCollected sums every payment ever recorded for the unit.
func TotalCollected(u consortium.Unit) money.Money {
	var total money.Money
	for _, p := range u.Payments {
		total += p.Amount
	}
	return total
}
