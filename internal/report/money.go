package report

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var dollarCurrencies = map[string]bool{"NZD": true, "AUD": true, "USD": true, "CAD": true}

// FormatMoney renders amount with two decimal places and thousands
// separators, e.g. "$1,234.50" for NZD or "GBP 1,234.50".
func FormatMoney(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	prefix := currency + " "
	if currency == "" || dollarCurrencies[currency] {
		prefix = "$"
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	rounded := amount.Round(2)
	_, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + prefix + humanize.Comma(rounded.IntPart()) + "." + frac
}

// FormatHours renders an hour total with two decimal places.
func FormatHours(h decimal.Decimal) string {
	return h.StringFixed(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
