package cache_rules

import (
	"time"

	"go.uber.org/zap"

	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/models"
	"go-market-cache/internal/utils"
)

const defaultStaleRatio = 0.1

// fallbackTTLs apply to cache types missing from ttl_defaults
var fallbackTTLs = map[models.CacheType]time.Duration{
	models.CacheTypePermanent: 24 * time.Hour,
	models.CacheTypeLong:      10 * time.Minute,
	models.CacheTypeShort:     60 * time.Second,
	models.CacheTypeMinimal:   10 * time.Second,
}

// CacheConfig implements the CacheRulesConfig interface
type CacheConfig struct {
	config *CacheRulesConfig
	logger *zap.Logger
}

// Ensure CacheConfig implements the CacheRulesConfig interface
var _ interfaces.CacheRulesConfig = (*CacheConfig)(nil)

// NewCacheConfig creates a new CacheConfig instance
func NewCacheConfig(config *CacheRulesConfig, logger *zap.Logger) *CacheConfig {
	if config == nil {
		panic("config cannot be nil")
	}
	return &CacheConfig{
		config: config,
		logger: logger,
	}
}

// GetCacheTypeForPath resolves the rule for a path by its endpoint pattern, then by the
// literal path, then by the "*" rule. Unmatched paths are not cached.
func (cr *CacheConfig) GetCacheTypeForPath(path string) models.CacheType {
	if len(cr.config.CacheRules) == 0 {
		return models.CacheTypeNone
	}

	pattern := utils.EndpointPattern(path)
	if cacheType, ok := cr.config.CacheRules[pattern]; ok {
		return cacheType
	}
	if cacheType, ok := cr.config.CacheRules[utils.NormalizePath(path)]; ok {
		return cacheType
	}
	if cacheType, ok := cr.config.CacheRules[DefaultRuleKey]; ok {
		return cacheType
	}

	if cr.logger != nil {
		cr.logger.Debug("no cache rule for endpoint", zap.String("pattern", pattern))
	}
	return models.CacheTypeNone
}

// GetTtlForCacheType returns the configured fresh TTL, falling back to built-in values
func (cr *CacheConfig) GetTtlForCacheType(cacheType models.CacheType) time.Duration {
	if cacheType == models.CacheTypeNone {
		return 0
	}
	if ttl, ok := cr.config.TTLDefaults[cacheType]; ok {
		return ttl
	}
	return fallbackTTLs[cacheType]
}

// GetStaleRatio returns the configured stale ratio or 0.1
func (cr *CacheConfig) GetStaleRatio() float64 {
	if cr.config.StaleRatio <= 0 {
		return defaultStaleRatio
	}
	return cr.config.StaleRatio
}

// Patterns returns every endpoint pattern that has a rule
func (cr *CacheConfig) Patterns() []string {
	patterns := make([]string, 0, len(cr.config.CacheRules))
	for pattern := range cr.config.CacheRules {
		patterns = append(patterns, pattern)
	}
	return patterns
}
