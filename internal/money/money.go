package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is an amount in integer cents. Arithmetic on Money never drifts, so
// sums can be compared with plain equality.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// ErrParse indicates input that could not be read as a currency amount.
var ErrParse = errors.New("money: cannot parse amount")

var printer = message.NewPrinter(language.English)

// FromCents wraps a raw cent count.
func FromCents(cents int64) Money {
	return Money(cents)
}

// Cents returns the raw cent count.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return m - other
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// Decimal returns the amount as a two-place decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// FromDecimal converts a decimal amount to cents, rounding half-up at the
// third decimal place.
func FromDecimal(d decimal.Decimal) Money {
	return Money(d.Shift(2).Round(0).IntPart())
}

// Parse reads locale-formatted numeric text such as "1,234.56". Thousands
// separators are optional but must sit at group boundaries; at most two
// decimal places are accepted.
func Parse(input string) (Money, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrParse)
	}
	if strings.Contains(s, ",") {
		if !groupedThousands(s) {
			return 0, fmt.Errorf("%w: %q has misplaced thousands separators", ErrParse, input)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, input)
	}
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrParse, input)
	}
	return Money(shifted.IntPart()), nil
}

// groupedThousands checks that commas split the integer digits into a
// leading group of one to three followed by groups of exactly three, with no
// comma after the decimal point. Digit validity is left to the decoder.
func groupedThousands(s string) bool {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && strings.Contains(frac, ",") {
		return false
	}
	if len(intPart) > 0 && (intPart[0] == '-' || intPart[0] == '+') {
		intPart = intPart[1:]
	}
	groups := strings.Split(intPart, ",")
	if len(groups[0]) < 1 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// Format renders the amount with exactly two decimal places and grouped
// thousands, e.g. "1,234.56".
func Format(m Money) string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := printer.Sprintf("%d", cents/100)
	return fmt.Sprintf("%s%s.%02d", sign, whole, cents%100)
}

// String implements fmt.Stringer.
func (m Money) String() string {
	return Format(m)
}

// Sum adds a sequence of amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
