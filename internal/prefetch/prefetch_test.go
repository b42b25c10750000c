package prefetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-market-cache/internal/config"
	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
)

type fakeWarmer struct {
	mu         sync.Mutex
	listings   []models.Currency
	globals    int
	listingErr error
}

func (f *fakeWarmer) Listings(_ context.Context, currency models.Currency) query.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings = append(f.listings, currency)
	return query.Result{Err: f.listingErr}
}

func (f *fakeWarmer) Global(context.Context) query.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.globals++
	return query.Result{}
}

func (f *fakeWarmer) calls() ([]models.Currency, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Currency(nil), f.listings...), f.globals
}

func TestNew_Validation(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := New(config.PrefetchConfig{Schedule: "@every 1m", Currencies: []string{"gbp"}}, &fakeWarmer{}, time.Second, logger)
	assert.Error(t, err)

	_, err = New(config.PrefetchConfig{Schedule: "not a schedule", Currencies: []string{"usd"}}, &fakeWarmer{}, time.Second, logger)
	assert.ErrorContains(t, err, "invalid prefetch schedule")
}

func TestRun_WarmsEveryCurrency(t *testing.T) {
	warmer := &fakeWarmer{}
	p, err := New(config.PrefetchConfig{Schedule: "@every 1m", Currencies: []string{"usd", "EUR"}}, warmer, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, p.Run(context.Background()))

	listings, globals := warmer.calls()
	assert.Equal(t, []models.Currency{models.CurrencyUSD, models.CurrencyEUR}, listings)
	assert.Equal(t, 1, globals)
}

func TestRun_JoinsErrors(t *testing.T) {
	failure := errors.New("rate limited")
	warmer := &fakeWarmer{listingErr: failure}
	p, err := New(config.PrefetchConfig{Schedule: "@every 1m", Currencies: []string{"usd", "pkr"}}, warmer, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)

	err = p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "listings usd")
	assert.Contains(t, err.Error(), "listings pkr")
}

func TestStartRunsImmediatelyAndStop(t *testing.T) {
	warmer := &fakeWarmer{}
	p, err := New(config.PrefetchConfig{Schedule: "@every 1h", Currencies: []string{"usd"}}, warmer, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)

	p.Start()
	assert.Eventually(t, func() bool {
		listings, _ := warmer.calls()
		return len(listings) == 1
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, p.Stop(ctx))
}
