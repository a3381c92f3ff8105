package money

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrCoefficient indicates an ownership coefficient outside (0, 1].
var ErrCoefficient = errors.New("money: coefficient out of range")

var one = decimal.NewFromInt(1)

// NormalizeCoefficient converts a raw ownership share into the internal 0-1
// fraction convention. Values above 1 are read as 0-100 percentages and
// divided by 100; values in (0, 1] pass through unchanged. Anything that does
// not land in (0, 1] after normalization is rejected.
func NormalizeCoefficient(raw decimal.Decimal) (decimal.Decimal, error) {
	c := raw
	if c.GreaterThan(one) {
		c = c.Div(decimal.NewFromInt(100))
	}
	if c.LessThanOrEqual(decimal.Zero) || c.GreaterThan(one) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrCoefficient, raw)
	}
	return c, nil
}

// SumCoefficients totals a coefficient list.
func SumCoefficients(coefficients []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range coefficients {
		total = total.Add(c)
	}
	return total
}

// Prorate splits total across coefficients in fixed-point arithmetic. Each
// share starts at floor(total x coefficient) in cents; the cents left against
// round(total x coefficient sum) are then handed out one per share in
// descending coefficient order, ties broken by input position. When the
// coefficients sum to 1 the shares therefore sum to total exactly.
func Prorate(total Money, coefficients []decimal.Decimal) []Money {
	shares := make([]Money, len(coefficients))
	if total <= 0 || len(coefficients) == 0 {
		return shares
	}
	totalDec := total.Decimal()
	var allocated Money
	for i, c := range coefficients {
		cents := totalDec.Mul(c).Shift(2).Floor().IntPart()
		shares[i] = Money(cents)
		allocated += Money(cents)
	}
	target := FromDecimal(totalDec.Mul(SumCoefficients(coefficients)))
	residual := target - allocated
	if residual <= 0 {
		return shares
	}
	order := make([]int, len(coefficients))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return coefficients[order[a]].GreaterThan(coefficients[order[b]])
	})
	for i := 0; residual > 0; i = (i + 1) % len(order) {
		shares[order[i]]++
		residual--
	}
	return shares
}
