package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCoefficient(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0.25", "0.25"},
		{"25", "0.25"},
		{"1", "1"},
		{"100", "1"},
		{"0.0001", "0.0001"},
	}
	for _, tc := range cases {
		got, err := NormalizeCoefficient(decimal.RequireFromString(tc.in))
		require.NoError(t, err, "input %s", tc.in)
		require.True(t, got.Equal(decimal.RequireFromString(tc.want)), "input %s got %s", tc.in, got)
	}
}

func TestNormalizeCoefficientRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{"0", "-0.5", "150"} {
		_, err := NormalizeCoefficient(decimal.RequireFromString(in))
		require.ErrorIs(t, err, ErrCoefficient, "input %s", in)
	}
}

func coeffs(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestProrateExactSum(t *testing.T) {
	// 0.3333 + 0.3333 + 0.3334 = 1, so $100.00 must split without losing
	// or inventing a cent.
	shares := Prorate(FromCents(10000), coeffs("0.3333", "0.3333", "0.3334"))
	require.Equal(t, Money(10000), Sum(shares...))
	require.Equal(t, []Money{3333, 3333, 3334}, shares)
}

func TestProrateResidualGoesToLargestCoefficient(t *testing.T) {
	shares := Prorate(FromCents(101), coeffs("0.5", "0.25", "0.25"))
	require.Equal(t, Money(101), Sum(shares...))
	require.Equal(t, []Money{51, 25, 25}, shares)
}

func TestProratePartialCoefficientSum(t *testing.T) {
	// Coefficients summing below 1 allocate proportionally less than total.
	shares := Prorate(FromCents(10000), coeffs("0.5", "0.4"))
	require.Equal(t, Money(9000), Sum(shares...))
	require.Equal(t, []Money{5000, 4000}, shares)
}

func TestProrateEdgeCases(t *testing.T) {
	require.Equal(t, []Money{}, Prorate(0, nil))
	shares := Prorate(FromCents(-100), coeffs("1"))
	require.Equal(t, []Money{0}, shares)
	shares = Prorate(FromCents(5000), nil)
	require.Empty(t, shares)
}
