// Package format renders market values for display.
package format

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"usd": "$",
	"eur": "€",
}

var compactUnits = []struct {
	suffix string
	size   decimal.Decimal
}{
	{"T", decimal.New(1, 12)},
	{"B", decimal.New(1, 9)},
	{"M", decimal.New(1, 6)},
	{"K", decimal.New(1, 3)},
}

// Currency formats value as a price in currency. Values below 1 get 6 fraction digits,
// everything else 2.
func Currency(value float64, currency string) string {
	places := int32(2)
	if value < 1 {
		places = 6
	}

	d := decimal.NewFromFloat(value)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + currencyPrefix(currency) + group(d.StringFixed(places))
}

func currencyPrefix(currency string) string {
	code := strings.ToLower(strings.TrimSpace(currency))
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return strings.ToUpper(code) + " "
}

// Compact formats value with a K/M/B/T suffix and at most 2 fraction digits
func Compact(value float64) string {
	d := decimal.NewFromFloat(value)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	thousand := decimal.New(1, 3)
	for i, unit := range compactUnits {
		if d.LessThan(unit.size) {
			continue
		}
		scaled := d.Div(unit.size).Round(2)
		// 999.999K rounds to 1000K, which reads better as 1M
		if i > 0 && scaled.GreaterThanOrEqual(thousand) {
			prev := compactUnits[i-1]
			return sign + group(d.Div(prev.size).Round(2).String()) + prev.suffix
		}
		return sign + group(scaled.String()) + unit.suffix
	}

	rounded := d.Round(2)
	if rounded.GreaterThanOrEqual(thousand) {
		return sign + "1K"
	}
	return sign + rounded.String()
}

// Percent formats a value that is already expressed in percent, e.g. 1.5 -> 1.50%
func Percent(value float64) string {
	d := decimal.NewFromFloat(value)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + group(d.StringFixed(2)) + "%"
}

// Address shortens a hex address to its first 6 and last 4 characters
func Address(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// TokenAmount converts a raw integer amount with the given decimals to a fixed-point string
func TokenAmount(amount *big.Int, decimals int32, places int32) string {
	if amount == nil {
		return decimal.Zero.StringFixed(places)
	}
	return decimal.NewFromBigInt(amount, -decimals).StringFixed(places)
}

// group inserts thousands separators into the integer part of a plain decimal string
func group(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}
