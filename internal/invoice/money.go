package invoice

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errNotNumber = errors.New("not a number")

var hundred = decimal.NewFromInt(100)

// round2 rounds to cents, half away from zero.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// parseNonNegative parses user input such as "1,250.5" into a decimal.
// Empty input is zero. Negative values and anything that is not a plain
// decimal number (NaN, Inf, "12abc") are rejected.
func parseNonNegative(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errNotNumber
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("must not be negative")
	}
	return d, nil
}

// FormatAmount renders d with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return round2(d).StringFixed(2)
}
