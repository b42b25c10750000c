package multi

import (
	"go.uber.org/zap"

	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/metrics"
	"go-market-cache/internal/models"
)

// Ensure MultiCache implements interfaces.LevelAwareCache
var _ interfaces.LevelAwareCache = (*MultiCache)(nil)

// Level is one cache tier of a MultiCache, ordered fastest first
type Level struct {
	Name  models.CacheLevel
	Cache interfaces.Cache
}

// entryWriter is implemented by levels that can store an entry with its original timestamps
type entryWriter interface {
	SetEntry(key string, entry *models.CacheEntry)
}

// MultiCache reads through its levels in order and writes to all of them.
// With propagation enabled a hit in a slower level is copied into the faster ones.
type MultiCache struct {
	levels      []Level
	propagation bool
	logger      *zap.Logger
}

// NewMultiCache creates a new MultiCache instance
func NewMultiCache(levels []Level, propagation bool, logger *zap.Logger) *MultiCache {
	return &MultiCache{
		levels:      levels,
		propagation: propagation,
		logger:      logger,
	}
}

// Get retrieves a non-expired entry from the first level that has the key
func (mc *MultiCache) Get(key string) (*models.CacheEntry, bool) {
	res := mc.GetWithLevel(key)
	return res.Entry, res.Found
}

// GetStale retrieves a servable entry from the first level that has the key
func (mc *MultiCache) GetStale(key string) (*models.CacheEntry, bool) {
	res := mc.GetStaleWithLevel(key)
	return res.Entry, res.Found
}

// GetWithLevel is Get that also reports which level served the entry
func (mc *MultiCache) GetWithLevel(key string) models.CacheResult {
	return mc.lookup(key, func(c interfaces.Cache) (*models.CacheEntry, bool) { return c.Get(key) })
}

// GetStaleWithLevel is GetStale that also reports which level served the entry
func (mc *MultiCache) GetStaleWithLevel(key string) models.CacheResult {
	return mc.lookup(key, func(c interfaces.Cache) (*models.CacheEntry, bool) { return c.GetStale(key) })
}

func (mc *MultiCache) lookup(key string, get func(interfaces.Cache) (*models.CacheEntry, bool)) models.CacheResult {
	for i, level := range mc.levels {
		entry, found := get(level.Cache)
		if !found {
			continue
		}
		if mc.propagation && i > 0 {
			mc.propagate(key, entry, i)
		}
		return models.CacheResult{Entry: entry, Level: level.Name, Found: true}
	}
	return models.CacheResult{Level: models.CacheLevelMiss}
}

// propagate copies an entry found at level index into every faster level
func (mc *MultiCache) propagate(key string, entry *models.CacheEntry, index int) {
	for _, level := range mc.levels[:index] {
		writer, ok := level.Cache.(entryWriter)
		if !ok {
			continue
		}
		writer.SetEntry(key, entry)
		mc.logger.Debug("propagated cache entry",
			zap.String("key", key),
			zap.String("from", string(mc.levels[index].Name)),
			zap.String("to", string(level.Name)))
	}
	metrics.RecordCacheHit("propagated", string(mc.levels[index].Name))
}

// Set stores value in every level
func (mc *MultiCache) Set(key string, val []byte, ttl models.TTL) {
	if len(mc.levels) == 0 {
		mc.logger.Warn("No caches available for set operation", zap.String("key", key))
		return
	}
	for _, level := range mc.levels {
		level.Cache.Set(key, val, ttl)
	}
}

// Delete removes entry from every level
func (mc *MultiCache) Delete(key string) {
	for _, level := range mc.levels {
		level.Cache.Delete(key)
	}
}

// LevelCount returns the number of configured levels
func (mc *MultiCache) LevelCount() int {
	return len(mc.levels)
}
