package l1

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"go-market-cache/internal/config"
	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/metrics"
	"go-market-cache/internal/models"
	"go-market-cache/internal/scheduler"
)

const (
	levelName       = "l1"
	metricsInterval = 30 * time.Second
	// Upstream payloads such as coin details with descriptions are large
	maxEntrySize = 2 * 1024 * 1024
)

// Ensure BigCache implements interfaces.Cache
var _ interfaces.Cache = (*BigCache)(nil)

// BigCache is the in-process response cache level
type BigCache struct {
	cache       *bigcache.BigCache
	logger      *zap.Logger
	metricsTask *scheduler.PeriodicTask
}

// NewBigCache creates a new BigCache instance
func NewBigCache(cfg config.BigCacheConfig, logger *zap.Logger) (*BigCache, error) {
	// Entries carry their own expiry; the life window only bounds eviction of forgotten keys
	bcConfig := bigcache.DefaultConfig(30 * time.Minute)
	bcConfig.HardMaxCacheSize = cfg.Size
	bcConfig.MaxEntrySize = maxEntrySize
	bcConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:  cache,
		logger: logger,
	}
	bc.metricsTask = scheduler.NewPeriodicTask(metricsInterval, func(context.Context) { bc.updateMetrics() })
	bc.metricsTask.Start()
	bc.updateMetrics()

	return bc, nil
}

// Get returns an entry that has not expired. Callers check IsFresh to tell fresh from stale.
func (bc *BigCache) Get(key string) (*models.CacheEntry, bool) {
	defer metrics.TimeCacheGetOperation(levelName)()
	return bc.lookup(key)
}

// GetStale returns an entry that may be served after an upstream failure
func (bc *BigCache) GetStale(key string) (*models.CacheEntry, bool) {
	return bc.lookup(key)
}

func (bc *BigCache) lookup(key string) (*models.CacheEntry, bool) {
	raw, err := bc.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := sonic.Unmarshal(raw, &entry); err != nil {
		bc.logger.Warn("dropping undecodable l1 entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(levelName, "decode")
		_ = bc.cache.Delete(key)
		return nil, false
	}

	if entry.IsExpired() {
		_ = bc.cache.Delete(key)
		return nil, false
	}
	return &entry, true
}

// Set stores val for ttl.Fresh plus ttl.Stale
func (bc *BigCache) Set(key string, val []byte, ttl models.TTL) {
	entry := models.NewCacheEntry(val, ttl, time.Now())
	bc.store(key, &entry)
}

// SetEntry stores an entry keeping its original timestamps
func (bc *BigCache) SetEntry(key string, entry *models.CacheEntry) {
	if entry == nil || entry.IsExpired() {
		return
	}
	bc.store(key, entry)
}

func (bc *BigCache) store(key string, entry *models.CacheEntry) {
	raw, err := sonic.Marshal(entry)
	if err != nil {
		bc.logger.Error("failed to encode l1 entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(levelName, "encode")
		return
	}

	if err := bc.cache.Set(key, raw); err != nil {
		bc.logger.Warn("failed to store l1 entry", zap.String("key", key), zap.Int("size", len(raw)), zap.Error(err))
		metrics.RecordCacheError(levelName, "store")
	}
}

// Delete removes entry from cache
func (bc *BigCache) Delete(key string) {
	_ = bc.cache.Delete(key)
}

// Len returns the number of stored entries, expired ones included
func (bc *BigCache) Len() int {
	return bc.cache.Len()
}

// Close stops metrics collection and releases the cache
func (bc *BigCache) Close() error {
	bc.metricsTask.Stop()
	return bc.cache.Close()
}

func (bc *BigCache) updateMetrics() {
	capacity := int64(bc.cache.Capacity())
	stats := bc.cache.Stats()
	bc.logger.Debug("l1 cache stats",
		zap.Int64("hits", stats.Hits),
		zap.Int64("misses", stats.Misses),
		zap.Int64("collisions", stats.Collisions),
	)
	metrics.UpdateL1CacheCapacity(capacity, int64(bc.cache.Len()))
	metrics.UpdateCacheKeys(levelName, int64(bc.cache.Len()))
}
