package interfaces

import (
	"time"

	"go-market-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules_config.go -destination=mock/cache_rules_config.go

// CacheRulesConfig defines the interface for resolving cache rules loaded from configuration
type CacheRulesConfig interface {
	// GetCacheTypeForPath returns the cache type configured for an upstream path
	GetCacheTypeForPath(path string) models.CacheType
	// GetTtlForCacheType returns the fresh TTL configured for a cache type
	GetTtlForCacheType(cacheType models.CacheType) time.Duration
	// GetStaleRatio returns the stale window as a fraction of the fresh TTL
	GetStaleRatio() float64
}
