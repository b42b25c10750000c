package format

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		currency string
		want     string
	}{
		{name: "sub-unit price gets 6 digits", value: 0.5, currency: "usd", want: "$0.500000"},
		{name: "large price gets 2 digits", value: 1234.56, currency: "usd", want: "$1,234.56"},
		{name: "exactly one", value: 1, currency: "usd", want: "$1.00"},
		{name: "tiny price", value: 0.00001234, currency: "usd", want: "$0.000012"},
		{name: "euro", value: 67000.456, currency: "eur", want: "€67,000.46"},
		{name: "upper case code", value: 67000, currency: "EUR", want: "€67,000.00"},
		{name: "rupee uses code prefix", value: 1234.5, currency: "pkr", want: "PKR 1,234.50"},
		{name: "millions", value: 1234567.891, currency: "usd", want: "$1,234,567.89"},
		{name: "zero", value: 0, currency: "usd", want: "$0.000000"},
		{name: "negative", value: -12.5, currency: "usd", want: "-$12.500000"},
		{name: "rounds half away from zero", value: 2.345, currency: "usd", want: "$2.35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.value, tt.currency))
		})
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 0, want: "0"},
		{value: 999, want: "999"},
		{value: 12.345, want: "12.35"},
		{value: 1234, want: "1.23K"},
		{value: 1500000, want: "1.5M"},
		{value: 2.1e10, want: "21B"},
		{value: 2.456e12, want: "2.46T"},
		{value: 999999, want: "1M"},
		{value: 1234e12, want: "1,234T"},
		{value: -45600, want: "-45.6K"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Compact(tt.value))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "1.23%", Percent(1.234))
	assert.Equal(t, "-0.50%", Percent(-0.5))
	assert.Equal(t, "0.00%", Percent(0))
	assert.Equal(t, "52.30%", Percent(52.3))
	assert.Equal(t, "1,234.50%", Percent(1234.5))
	assert.Equal(t, "-123,456.00%", Percent(-123456))
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "0x1234...abcd", Address("0x1234567890abcdef1234567890abcdef1234abcd"))
	assert.Equal(t, "0x12", Address("0x12"))
}

func TestTokenAmount(t *testing.T) {
	wei, _ := new(big.Int).SetString("1234567800000000000", 10)
	assert.Equal(t, "1.2346", TokenAmount(wei, 18, 4))
	assert.Equal(t, "0.0000", TokenAmount(big.NewInt(0), 18, 4))
	assert.Equal(t, "0.0000", TokenAmount(nil, 18, 4))
}

func TestGroup(t *testing.T) {
	assert.Equal(t, "1", group("1"))
	assert.Equal(t, "123", group("123"))
	assert.Equal(t, "1,234", group("1234"))
	assert.Equal(t, "123,456.78", group("123456.78"))
	assert.Equal(t, "1,000,000", group("1000000"))
}
