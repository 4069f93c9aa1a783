package inv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount with the configured currency code and
// thousands separators, e.g. "USD 12,345.60".
func (c *Client) FormatCurrency(d decimal.Decimal) string {
	return FormatMoney(c.Config.Currency, d)
}

// FormatMoney renders d with two decimals and thousands separators.
func FormatMoney(currency string, d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	if currency == "" {
		return out
	}
	return currency + " " + out
}
