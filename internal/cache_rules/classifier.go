package cache_rules

import (
	"time"

	"go.uber.org/zap"

	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/models"
)

// Classifier implements the CacheRulesClassifier interface
type Classifier struct {
	logger    *zap.Logger
	configTTL interfaces.CacheRulesConfig
}

// Ensure Classifier implements the CacheRulesClassifier interface
var _ interfaces.CacheRulesClassifier = (*Classifier)(nil)

// NewClassifier creates a new Classifier instance
func NewClassifier(logger *zap.Logger, configTTL interfaces.CacheRulesConfig) *Classifier {
	return &Classifier{
		logger:    logger,
		configTTL: configTTL,
	}
}

// GetTtl returns the cache type and fresh TTL for an upstream path. A zero TTL means bypass.
func (c *Classifier) GetTtl(path string) models.CacheInfo {
	if path == "" || c.configTTL == nil {
		return models.CacheInfo{TTL: 0, CacheType: models.CacheTypeNone}
	}

	cacheType := c.configTTL.GetCacheTypeForPath(path)
	if cacheType == models.CacheTypeNone {
		return models.CacheInfo{TTL: 0, CacheType: models.CacheTypeNone}
	}

	ttl := c.configTTL.GetTtlForCacheType(cacheType)
	if ttl == 0 {
		return models.CacheInfo{TTL: 0, CacheType: models.CacheTypeNone}
	}

	return models.CacheInfo{TTL: ttl, CacheType: cacheType}
}

// StaleTtl pairs the fresh TTL with a stale window of fresh × stale_ratio
func (c *Classifier) StaleTtl(path string, fresh models.CacheInfo) models.TTL {
	if fresh.TTL <= 0 || c.configTTL == nil {
		return models.TTL{}
	}
	stale := time.Duration(float64(fresh.TTL) * c.configTTL.GetStaleRatio())
	if c.logger != nil {
		c.logger.Debug("cache ttl",
			zap.String("path", path),
			zap.String("cache_type", string(fresh.CacheType)),
			zap.Duration("fresh", fresh.TTL),
			zap.Duration("stale", stale))
	}
	return models.TTL{Fresh: fresh.TTL, Stale: stale}
}
