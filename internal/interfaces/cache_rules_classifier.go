package interfaces

import (
	"go-market-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules_classifier.go -destination=mock/cache_rules_classifier.go

// CacheRulesClassifier decides how long a proxied endpoint response may be cached
type CacheRulesClassifier interface {
	// GetTtl returns cache information including TTL and cache type for an upstream path
	GetTtl(path string) models.CacheInfo
	// StaleTtl returns how long a response for path may be served after it went stale
	StaleTtl(path string, fresh models.CacheInfo) models.TTL
}
