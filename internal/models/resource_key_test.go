package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResourceKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  ResourceKey
		want string
	}{
		{
			name: "no params",
			key:  NewResourceKey(ResourceGlobalStats),
			want: "global-stats",
		},
		{
			name: "sorted params",
			key:  NewResourceKey(ResourceMarketListing, "vs_currency", "usd", "page", "1"),
			want: "market-listing?page=1&vs_currency=usd",
		},
		{
			name: "escaped values",
			key:  NewResourceKey(ResourceSearch, "query", "shiba inu&co"),
			want: "search?query=shiba+inu%26co",
		},
		{
			name: "odd trailing name ignored",
			key:  NewResourceKey(ResourceCoinDetail, "id", "bitcoin", "dangling"),
			want: "coin-detail?id=bitcoin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestResourceKey_Equal(t *testing.T) {
	a := NewResourceKey(ResourceMarketListing, "vs_currency", "eur", "page", "1")
	b := ResourceKey{Resource: ResourceMarketListing, Params: map[string]string{"page": "1", "vs_currency": "eur"}}
	c := NewResourceKey(ResourceMarketListing, "vs_currency", "usd", "page", "1")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, "eur", a.Param("vs_currency"))
	assert.Empty(t, a.Param("missing"))
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" EUR ")
	assert.NoError(t, err)
	assert.Equal(t, CurrencyEUR, c)
	assert.Equal(t, "EUR", c.Upper())

	_, err = ParseCurrency("gbp")
	assert.Error(t, err)
	assert.False(t, Currency("gbp").Valid())
	assert.True(t, DefaultCurrency.Valid())
}

func TestCacheEntry_Freshness(t *testing.T) {
	now := time.Unix(1000, 0)
	entry := NewCacheEntry([]byte(`{}`), TTL{Fresh: time.Minute, Stale: 2 * time.Minute}, now)

	assert.Equal(t, int64(1000), entry.CreatedAt)
	assert.Equal(t, int64(1060), entry.StaleAt)
	assert.Equal(t, int64(1180), entry.ExpiresAt)
	assert.False(t, entry.IsFresh())
	assert.True(t, entry.IsExpired())

	current := NewCacheEntry([]byte(`{}`), TTL{Fresh: time.Minute, Stale: time.Minute}, time.Now())
	assert.True(t, current.IsFresh())
	assert.False(t, current.IsExpired())
}

func TestGlobalStats_BTCDominance(t *testing.T) {
	stats := GlobalStats{Data: GlobalData{MarketCapPercentage: map[string]float64{"btc": 52.1, "eth": 17}}}
	assert.InDelta(t, 52.1, stats.BTCDominance(), 1e-9)
	assert.Zero(t, GlobalStats{}.BTCDominance())
}
