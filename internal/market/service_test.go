package market

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"go-market-cache/internal/config"
	"go-market-cache/internal/interfaces/mock"
	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
	"go-market-cache/internal/transport"
)

const listingsPayload = `[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":67000.5,"market_cap_rank":1,"market_cap":1.3e12,"total_volume":2.1e10,
	 "price_change_percentage_1h_in_currency":0.12,"price_change_percentage_24h_in_currency":-1.5,"price_change_percentage_7d_in_currency":3.2,
	 "sparkline_in_7d":{"price":[66000,66500,67000]}},
	{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3500,"market_cap_rank":2,"market_cap":4.2e11,"total_volume":1.2e10,
	 "sparkline_in_7d":{"price":[3400,3500]}},
	{"id":"solana","symbol":"sol","name":"Solana","current_price":0.5,"market_cap_rank":3,"market_cap":7e10,"total_volume":3e9,
	 "sparkline_in_7d":{"price":[]}}
]`

func newTestService(t *testing.T) (*Service, *mock.MockTransport) {
	ctrl := gomock.NewController(t)
	mockTransport := mock.NewMockTransport(ctrl)

	logger := zaptest.NewLogger(t)
	queries := query.NewClient(config.QueryConfig{
		StaleTime:  time.Minute,
		Retry:      1,
		RetryDelay: time.Millisecond,
	}, logger, nil)
	t.Cleanup(queries.Close)

	cfg := config.Default().Market
	return NewService(mockTransport, queries, cfg, logger), mockTransport
}

func TestListings(t *testing.T) {
	svc, mockTransport := newTestService(t)

	mockTransport.EXPECT().
		Get(gomock.Any(), "/coins/markets", url.Values{
			"vs_currency":             {"eur"},
			"order":                   {"market_cap_desc"},
			"per_page":                {"15"},
			"page":                    {"1"},
			"sparkline":               {"true"},
			"price_change_percentage": {"1h,24h,7d"},
		}).
		Return([]byte(listingsPayload), nil).
		Times(1)

	res := svc.Listings(context.Background(), models.CurrencyEUR)

	require.Equal(t, models.QueryStatusSuccess, res.Status)
	listings, ok := query.Data[[]models.CoinListing](res)
	require.True(t, ok)
	require.Len(t, listings, 3)
	assert.Equal(t, "bitcoin", listings[0].ID)
	assert.Equal(t, 67000.5, listings[0].CurrentPrice)
	require.NotNil(t, listings[0].PriceChangePercent24h)
	assert.Equal(t, -1.5, *listings[0].PriceChangePercent24h)
	assert.Nil(t, listings[1].PriceChangePercent1h)
	assert.Equal(t, []float64{66000, 66500, 67000}, listings[0].SparklineIn7d.Price)
	assert.Equal(t, ListingsKey(models.CurrencyEUR), res.Key)

	// second read is served from cache
	again := svc.Listings(context.Background(), models.CurrencyEUR)
	assert.Equal(t, res.Data, again.Data)
}

func TestListings_RetriesUpToThreeTimes(t *testing.T) {
	svc, mockTransport := newTestService(t)

	rateLimited := &transport.HTTPError{Status: 429}
	gomock.InOrder(
		mockTransport.EXPECT().Get(gomock.Any(), "/coins/markets", gomock.Any()).Return(nil, rateLimited).Times(3),
		mockTransport.EXPECT().Get(gomock.Any(), "/coins/markets", gomock.Any()).Return([]byte(listingsPayload), nil),
	)

	res := svc.Listings(context.Background(), models.CurrencyUSD)

	assert.Equal(t, models.QueryStatusSuccess, res.Status)
}

func TestGlobal(t *testing.T) {
	svc, mockTransport := newTestService(t)

	mockTransport.EXPECT().
		Get(gomock.Any(), "/global", gomock.Nil()).
		Return([]byte(`{"data":{"total_market_cap":{"usd":2.5e12},"total_volume":{"usd":9e10},
			"market_cap_percentage":{"btc":52.3,"eth":16.9},"market_cap_change_percentage_24h_usd":-0.8}}`), nil)

	res := svc.Global(context.Background())

	stats, ok := query.Data[models.GlobalStats](res)
	require.True(t, ok)
	assert.Equal(t, 2.5e12, stats.Data.TotalMarketCap["usd"])
	assert.Equal(t, 52.3, stats.BTCDominance())
	assert.Equal(t, -0.8, stats.Data.MarketCapChangePercentage24hUSD)
}

func TestCoin(t *testing.T) {
	t.Run("disabled without id", func(t *testing.T) {
		svc, _ := newTestService(t)

		res := svc.Coin(context.Background(), "")

		assert.Equal(t, models.QueryStatusIdle, res.Status)
		assert.Nil(t, res.Data)
	})

	t.Run("fetches detail", func(t *testing.T) {
		svc, mockTransport := newTestService(t)

		mockTransport.EXPECT().
			Get(gomock.Any(), "/coins/bitcoin", url.Values{
				"localization":   {"false"},
				"tickers":        {"false"},
				"market_data":    {"true"},
				"community_data": {"false"},
				"developer_data": {"false"},
				"sparkline":      {"true"},
			}).
			Return([]byte(`{"id":"bitcoin","name":"Bitcoin","symbol":"btc",
				"image":{"large":"https://img/btc.png"},
				"market_data":{"current_price":{"usd":67000},"high_24h":{"usd":68000},"low_24h":{"usd":66000},
					"total_supply":21000000,"circulating_supply":19700000,"max_supply":null,"price_change_percentage_24h":1.2},
				"description":{"en":"Digital gold"},
				"links":{"homepage":["https://bitcoin.org"],"blockchain_site":["https://mempool.space"]}}`), nil)

		res := svc.Coin(context.Background(), "bitcoin")

		detail, ok := query.Data[models.CoinDetail](res)
		require.True(t, ok)
		assert.Equal(t, "Bitcoin", detail.Name)
		assert.Equal(t, 67000.0, detail.MarketData.CurrentPrice["usd"])
		require.NotNil(t, detail.MarketData.TotalSupply)
		assert.Nil(t, detail.MarketData.MaxSupply)
		assert.Equal(t, "Digital gold", detail.Description.En)
		assert.Equal(t, []string{"https://bitcoin.org"}, detail.Links.Homepage)
	})
}

func TestSearch(t *testing.T) {
	t.Run("short terms never hit the API", func(t *testing.T) {
		svc, _ := newTestService(t)

		for _, term := range []string{"", "b", "bt"} {
			res := svc.Search(context.Background(), term)
			assert.Equal(t, models.QueryStatusIdle, res.Status, term)
		}
	})

	t.Run("keeps top five", func(t *testing.T) {
		svc, mockTransport := newTestService(t)

		mockTransport.EXPECT().
			Get(gomock.Any(), "/search", url.Values{"query": {"coin"}}).
			Return([]byte(`{"coins":[
				{"id":"a","name":"A","symbol":"a","thumb":"t"},{"id":"b","name":"B","symbol":"b","thumb":"t"},
				{"id":"c","name":"C","symbol":"c","thumb":"t"},{"id":"d","name":"D","symbol":"d","thumb":"t"},
				{"id":"e","name":"E","symbol":"e","thumb":"t"},{"id":"f","name":"F","symbol":"f","thumb":"t"},
				{"id":"g","name":"G","symbol":"g","thumb":"t"}],"exchanges":[]}`), nil)

		res := svc.Search(context.Background(), "coin")

		results, ok := query.Data[[]models.SearchResult](res)
		require.True(t, ok)
		require.Len(t, results, 5)
		assert.Equal(t, "a", results[0].ID)
		assert.Equal(t, "e", results[4].ID)
	})

	t.Run("multibyte terms are counted in runes", func(t *testing.T) {
		svc, _ := newTestService(t)
		assert.False(t, svc.SearchEnabled("ξé"))
		assert.True(t, svc.SearchEnabled("ξéλ"))
	})
}

func TestDecodeError(t *testing.T) {
	svc, mockTransport := newTestService(t)

	mockTransport.EXPECT().
		Get(gomock.Any(), "/global", gomock.Any()).
		Return([]byte(`{"data":`), nil).
		Times(4)

	res := svc.Global(context.Background())

	assert.Equal(t, models.QueryStatusError, res.Status)
	var decodeErr *DecodeError
	require.True(t, errors.As(res.Err, &decodeErr))
	assert.Equal(t, models.ResourceGlobalStats, decodeErr.Resource)
	assert.True(t, decodeErr.DecodeFailure())
}

func TestWatchlistListings(t *testing.T) {
	svc, mockTransport := newTestService(t)

	mockTransport.EXPECT().
		Get(gomock.Any(), "/coins/markets", gomock.Any()).
		Return([]byte(listingsPayload), nil)

	res := svc.WatchlistListings(context.Background(), models.CurrencyUSD, []string{"solana", "bitcoin", "dogecoin"})

	listings, ok := query.Data[[]models.CoinListing](res)
	require.True(t, ok)
	require.Len(t, listings, 2)
	assert.Equal(t, "bitcoin", listings[0].ID)
	assert.Equal(t, "solana", listings[1].ID)

	empty := svc.WatchlistListings(context.Background(), models.CurrencyUSD, nil)
	emptyListings, ok := query.Data[[]models.CoinListing](empty)
	require.True(t, ok)
	assert.Empty(t, emptyListings)
}

func TestWatchlistListings_PropagatesError(t *testing.T) {
	svc, mockTransport := newTestService(t)

	mockTransport.EXPECT().
		Get(gomock.Any(), "/coins/markets", gomock.Any()).
		Return(nil, &transport.HTTPError{Status: 500}).
		Times(4)

	res := svc.WatchlistListings(context.Background(), models.CurrencyUSD, []string{"bitcoin"})

	assert.Equal(t, models.QueryStatusError, res.Status)
	assert.Nil(t, res.Data)
}

func TestDefinition(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		resource string
		params   map[string]string
		wantKey  models.ResourceKey
		wantErr  bool
	}{
		{name: "listing", resource: models.ResourceMarketListing, params: map[string]string{"currency": "PKR"}, wantKey: ListingsKey(models.CurrencyPKR)},
		{name: "listing bad currency", resource: models.ResourceMarketListing, params: map[string]string{"currency": "gbp"}, wantErr: true},
		{name: "global", resource: models.ResourceGlobalStats, wantKey: GlobalKey()},
		{name: "coin", resource: models.ResourceCoinDetail, params: map[string]string{"id": "ethereum"}, wantKey: CoinKey("ethereum")},
		{name: "search", resource: models.ResourceSearch, params: map[string]string{"query": "doge"}, wantKey: SearchKey("doge")},
		{name: "unknown", resource: "nft", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := svc.Definition(tt.resource, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantKey.Equal(def.Key))
		})
	}

	_, err := svc.Definition("nft", nil)
	assert.ErrorIs(t, err, ErrUnknownResource)
}
