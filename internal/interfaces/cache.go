package interfaces

import (
	"go-market-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache interface defines the contract for proxy response cache implementations
type Cache interface {
	Get(key string) (*models.CacheEntry, bool)      // returns entry and found flag
	GetStale(key string) (*models.CacheEntry, bool) // stale-if-error, returns entry and found flag
	Set(key string, val []byte, ttl models.TTL)
	Delete(key string)
}

// LevelAwareCache is a Cache that also reports which level served a value
type LevelAwareCache interface {
	Cache
	GetWithLevel(key string) models.CacheResult
	GetStaleWithLevel(key string) models.CacheResult
}
