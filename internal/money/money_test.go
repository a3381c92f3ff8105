package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"0", 0},
		{"100", 10000},
		{"100.5", 10050},
		{"1,234.56", 123456},
		{"12,345,678.90", 1234567890},
		{"-1,234.00", -123400},
		{"  42.00 ", 4200},
		{"-12.34", -1234},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "10.001"} {
		_, err := Parse(in)
		require.ErrorIs(t, err, ErrParse, "input %q", in)
	}
}

func TestParseRejectsMisplacedSeparators(t *testing.T) {
	for _, in := range []string{"1,2,3.45", "12,34.56", ",123", "1,234,56", "1234,567", "12.3,4"} {
		_, err := Parse(in)
		require.ErrorIs(t, err, ErrParse, "input %q", in)
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "0.00", Format(0))
	require.Equal(t, "1.00", Format(100))
	require.Equal(t, "1,234.56", Format(123456))
	require.Equal(t, "-1,234.56", Format(-123456))
	require.Equal(t, "0.05", Format(5))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, in := range []string{"1,234.56", "0.00", "99.99"} {
		m, err := Parse(in)
		require.NoError(t, err)
		require.Equal(t, in, Format(m))
	}
}

func TestFromDecimalRounds(t *testing.T) {
	d := decimal.RequireFromString("10.005")
	require.Equal(t, Money(1001), FromDecimal(d))
	d = decimal.RequireFromString("10.004")
	require.Equal(t, Money(1000), FromDecimal(d))
}

func TestArithmetic(t *testing.T) {
	a := FromCents(150)
	b := FromCents(50)
	require.Equal(t, Money(200), a.Add(b))
	require.Equal(t, Money(100), a.Sub(b))
	require.True(t, Zero.IsZero())
	require.True(t, FromCents(-1).IsNegative())
	require.Equal(t, Money(300), Sum(a, b, FromCents(100)))
}
