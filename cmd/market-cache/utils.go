package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultConfigPath     = "/app/market_cache.yaml"
	defaultCacheRulesPath = "/app/cache_rules.yaml"
	defaultKeyDBURLFile   = "/app/.keydb-url"
	defaultKeyDBURL       = "redis://keydb:6379"
)

// envOrDefault returns the value of an environment variable or fallback when unset
func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// GetKeyDBURL returns KeyDB URL with the following priority:
// 1. KEYDB_URL environment variable
// 2. MARKET_CACHE_KEYDB_URL_FILE file content
// 3. Default value
func GetKeyDBURL(logger *zap.Logger) string {
	if keydbURL := os.Getenv("KEYDB_URL"); keydbURL != "" {
		logger.Debug("Using KeyDB URL from environment variable")
		return keydbURL
	}

	connectionFile := envOrDefault("MARKET_CACHE_KEYDB_URL_FILE", defaultKeyDBURLFile)
	if content, err := os.ReadFile(connectionFile); err == nil {
		if keydbURL := strings.TrimSpace(string(content)); keydbURL != "" {
			logger.Debug("Using KeyDB URL from connection file", zap.String("file", connectionFile))
			return keydbURL
		}
	} else {
		logger.Debug("KeyDB connection file not found", zap.String("file", connectionFile))
	}

	logger.Debug("Using default KeyDB URL")
	return defaultKeyDBURL
}

// fileExists reports whether path exists; other stat errors count as existing so that
// the subsequent open reports them
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
