package models

import (
	"fmt"
	"strings"
)

// Currency is a quote currency code supported by the dashboard
type Currency string

const (
	CurrencyUSD Currency = "usd"
	CurrencyEUR Currency = "eur"
	CurrencyPKR Currency = "pkr"

	DefaultCurrency = CurrencyUSD
)

// SupportedCurrencies lists every selectable currency in display order
var SupportedCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyPKR}

// ParseCurrency normalises and validates a currency code
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}

// Valid reports whether the currency belongs to the supported set
func (c Currency) Valid() bool {
	for _, s := range SupportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// Upper returns the ISO-style upper case code
func (c Currency) Upper() string {
	return strings.ToUpper(string(c))
}
