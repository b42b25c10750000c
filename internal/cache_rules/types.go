package cache_rules

import (
	"time"

	"go-market-cache/internal/models"
)

// DefaultRuleKey matches every endpoint without a rule of its own
const DefaultRuleKey = "*"

// TTLDefaults represents TTL settings for different cache types
type TTLDefaults map[models.CacheType]time.Duration

// CacheRulesConfig represents the cache rules configuration
type CacheRulesConfig struct {
	TTLDefaults TTLDefaults `yaml:"ttl_defaults"`
	// StaleRatio sizes the stale-if-error window as a fraction of the fresh TTL
	StaleRatio float64 `yaml:"stale_ratio"`
	// CacheRules maps endpoint patterns such as /coins/{id} to a cache type
	CacheRules map[string]models.CacheType `yaml:"cache_rules"`
}

// DefaultRules returns the rules used when no cache rules file is configured
func DefaultRules() *CacheRulesConfig {
	return &CacheRulesConfig{
		TTLDefaults: TTLDefaults{
			models.CacheTypePermanent: 24 * time.Hour,
			models.CacheTypeLong:      10 * time.Minute,
			models.CacheTypeShort:     60 * time.Second,
			models.CacheTypeMinimal:   10 * time.Second,
		},
		StaleRatio: defaultStaleRatio,
		CacheRules: map[string]models.CacheType{
			"/coins/markets": models.CacheTypeShort,
			"/coins/{id}":    models.CacheTypeShort,
			"/global":        models.CacheTypeShort,
			"/search":        models.CacheTypeLong,
			"/coins/list":    models.CacheTypePermanent,
			"/simple/price":  models.CacheTypeMinimal,
			"/ping":          models.CacheTypeNone,
		},
	}
}
