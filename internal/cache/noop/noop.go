package noop

import (
	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/models"
)

// Ensure NoOpCache implements interfaces.LevelAwareCache
var _ interfaces.LevelAwareCache = (*NoOpCache)(nil)

// NoOpCache stands in when every response cache level is disabled; all reads miss
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (n *NoOpCache) Get(string) (*models.CacheEntry, bool) { return nil, false }

func (n *NoOpCache) GetStale(string) (*models.CacheEntry, bool) { return nil, false }

func (n *NoOpCache) GetWithLevel(string) models.CacheResult {
	return models.CacheResult{Level: models.CacheLevelMiss}
}

func (n *NoOpCache) GetStaleWithLevel(string) models.CacheResult {
	return models.CacheResult{Level: models.CacheLevelMiss}
}

func (n *NoOpCache) Set(string, []byte, models.TTL) {}

func (n *NoOpCache) Delete(string) {}
