package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "/"},
		{in: "global", want: "/global"},
		{in: "/coins//markets/", want: "/coins/markets"},
		{in: " /coins/bitcoin ", want: "/coins/bitcoin"},
		{in: "/coins/../global", want: "/global"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestEndpointPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/coins/markets", want: "/coins/markets"},
		{in: "/coins/list", want: "/coins/list"},
		{in: "/coins/bitcoin", want: "/coins/{id}"},
		{in: "coins/ethereum/market_chart", want: "/coins/{id}/market_chart"},
		{in: "/global", want: "/global"},
		{in: "/search", want: "/search"},
		{in: "/coins", want: "/coins"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EndpointPattern(tt.in))
		})
	}
}

func TestFilterParams(t *testing.T) {
	params := url.Values{
		"vs_currency": {"usd"},
		"ids":         {"solana", "bitcoin"},
		"empty":       {""},
		" ":           {"x"},
	}

	filtered := FilterParams(params)

	assert.Equal(t, url.Values{
		"vs_currency": {"usd"},
		"ids":         {"bitcoin", "solana"},
	}, filtered)
	// input is left untouched
	assert.Equal(t, []string{"solana", "bitcoin"}, params["ids"])
}
