package preferences

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-market-cache/internal/interfaces/mock"
)

func TestKeyDBBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockKeyDbClient(ctrl)
	backend := NewKeyDBBackend(client, time.Second)

	t.Run("get existing", func(t *testing.T) {
		client.EXPECT().Get(gomock.Any(), "market-cache:prefs:coinlens-currency").
			Return(redis.NewStringResult("eur", nil))

		v, ok, err := backend.Get(CurrencyKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "eur", v)
	})

	t.Run("get missing", func(t *testing.T) {
		client.EXPECT().Get(gomock.Any(), "market-cache:prefs:coinlens-watchlist").
			Return(redis.NewStringResult("", redis.Nil))

		_, ok, err := backend.Get(WatchlistKey)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("get error", func(t *testing.T) {
		client.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(redis.NewStringResult("", errors.New("connection refused")))

		_, _, err := backend.Get(CurrencyKey)
		assert.Error(t, err)
	})

	t.Run("set without expiry", func(t *testing.T) {
		client.EXPECT().Set(gomock.Any(), "market-cache:prefs:coinlens-currency", "pkr", time.Duration(0)).
			Return(redis.NewStatusResult("OK", nil))

		assert.NoError(t, backend.Set(CurrencyKey, "pkr"))
	})

	t.Run("delete", func(t *testing.T) {
		client.EXPECT().Del(gomock.Any(), "market-cache:prefs:coinlens-watchlist").
			Return(redis.NewIntResult(1, nil))

		assert.NoError(t, backend.Delete(WatchlistKey))
	})

	t.Run("delete error", func(t *testing.T) {
		client.EXPECT().Del(gomock.Any(), gomock.Any()).
			Return(redis.NewIntResult(0, errors.New("timeout")))

		assert.Error(t, backend.Delete(WatchlistKey))
	})
}
