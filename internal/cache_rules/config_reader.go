package cache_rules

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const maxStaleRatio = 10

// LoadCacheRulesConfig loads cache rules from a YAML file
func LoadCacheRulesConfig(rulesPath string, logger *zap.Logger) (*CacheConfig, error) {
	logger.Info("Loading cache rules config", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache rules file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config CacheRulesConfig
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML cache rules: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("cache rules validation failed: %w", err)
	}

	logger.Info("Cache rules config loaded",
		zap.Int("rules", len(config.CacheRules)),
		zap.Float64("stale_ratio", config.StaleRatio))

	return NewCacheConfig(&config, logger), nil
}

// validateConfig validates the cache rules configuration structure
func validateConfig(config *CacheRulesConfig) error {
	if len(config.TTLDefaults) == 0 {
		return errors.New("missing ttl_defaults section")
	}
	if len(config.CacheRules) == 0 {
		return errors.New("missing cache_rules section")
	}
	for cacheType, ttl := range config.TTLDefaults {
		if ttl < 0 {
			return fmt.Errorf("negative ttl for cache type %q", cacheType)
		}
	}
	if config.StaleRatio < 0 || config.StaleRatio > maxStaleRatio {
		return fmt.Errorf("stale_ratio must be between 0 and %d, got %v", maxStaleRatio, config.StaleRatio)
	}
	return nil
}
