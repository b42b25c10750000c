package l1

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-market-cache/internal/config"
	"go-market-cache/internal/models"
)

func newTestCache(t *testing.T) *BigCache {
	t.Helper()
	cache, err := NewBigCache(config.BigCacheConfig{Enabled: true, Size: 10}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

// putRaw stores an entry with arbitrary timestamps
func putRaw(t *testing.T, cache *BigCache, key string, entry models.CacheEntry) {
	t.Helper()
	raw, err := sonic.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, cache.cache.Set(key, raw))
}

var testTTL = models.TTL{Fresh: 60 * time.Second, Stale: 30 * time.Second}

func TestBigCache_SetAndGetFresh(t *testing.T) {
	cache := newTestCache(t)
	payload := []byte(`[{"id":"bitcoin"}]`)

	cache.Set("market:/coins/markets:abc", payload, testTTL)

	entry, found := cache.Get("market:/coins/markets:abc")
	require.True(t, found)
	assert.True(t, entry.IsFresh())
	assert.Equal(t, payload, entry.Data)
}

func TestBigCache_GetNotFound(t *testing.T) {
	cache := newTestCache(t)

	entry, found := cache.Get("missing")
	assert.False(t, found)
	assert.Nil(t, entry)

	entry, found = cache.GetStale("missing")
	assert.False(t, found)
	assert.Nil(t, entry)
}

func TestBigCache_StaleEntry(t *testing.T) {
	cache := newTestCache(t)
	now := time.Now().Unix()
	putRaw(t, cache, "stale", models.CacheEntry{
		Data:      []byte("value"),
		CreatedAt: now - 200,
		StaleAt:   now - 50,
		ExpiresAt: now + 100,
	})

	entry, found := cache.Get("stale")
	require.True(t, found)
	assert.False(t, entry.IsFresh())

	entry, found = cache.GetStale("stale")
	require.True(t, found)
	assert.Equal(t, []byte("value"), entry.Data)
}

func TestBigCache_ExpiredEntryIsRemoved(t *testing.T) {
	cache := newTestCache(t)
	now := time.Now().Unix()
	putRaw(t, cache, "expired", models.CacheEntry{
		Data:      []byte("value"),
		CreatedAt: now - 300,
		StaleAt:   now - 200,
		ExpiresAt: now - 100,
	})

	_, found := cache.GetStale("expired")
	assert.False(t, found)
	assert.Equal(t, 0, cache.Len())
}

func TestBigCache_CorruptEntryIsRemoved(t *testing.T) {
	cache := newTestCache(t)
	require.NoError(t, cache.cache.Set("corrupt", []byte("not json")))

	_, found := cache.Get("corrupt")
	assert.False(t, found)
	assert.Equal(t, 0, cache.Len())
}

func TestBigCache_SetEntryKeepsTimestamps(t *testing.T) {
	cache := newTestCache(t)
	now := time.Now().Unix()
	original := &models.CacheEntry{Data: []byte("v"), CreatedAt: now - 10, StaleAt: now + 5, ExpiresAt: now + 20}

	cache.SetEntry("k", original)

	entry, found := cache.Get("k")
	require.True(t, found)
	assert.Equal(t, original.CreatedAt, entry.CreatedAt)
	assert.Equal(t, original.StaleAt, entry.StaleAt)
	assert.Equal(t, original.ExpiresAt, entry.ExpiresAt)

	cache.SetEntry("expired", &models.CacheEntry{Data: []byte("v"), ExpiresAt: now - 1})
	_, found = cache.Get("expired")
	assert.False(t, found)
}

func TestBigCache_Delete(t *testing.T) {
	cache := newTestCache(t)
	cache.Set("k", []byte("v"), testTTL)

	cache.Delete("k")
	cache.Delete("never-set")

	_, found := cache.Get("k")
	assert.False(t, found)
}

func TestBigCache_ConcurrentAccess(t *testing.T) {
	cache := newTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j)
				value := []byte(fmt.Sprintf("value-%d-%d", id, j))
				cache.Set(key, value, testTTL)
				if entry, found := cache.Get(key); found {
					assert.Equal(t, value, entry.Data)
				}
				cache.Delete(key)
			}
		}(i)
	}
	wg.Wait()
}
