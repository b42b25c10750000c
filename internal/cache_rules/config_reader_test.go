package cache_rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-market-cache/internal/models"
)

func createTempYAMLFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache_rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCacheRulesConfig_Success(t *testing.T) {
	validYAML := `
ttl_defaults:
  permanent: 24h
  long: 10m
  short: 60s
  minimal: 10s
stale_ratio: 0.25
cache_rules:
  /coins/markets: short
  /coins/{id}: short
  /search: long
  /ping: none
`
	config, err := LoadCacheRulesConfig(createTempYAMLFile(t, validYAML), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, models.CacheTypeShort, config.GetCacheTypeForPath("/coins/dogecoin"))
	assert.Equal(t, models.CacheTypeLong, config.GetCacheTypeForPath("/search"))
	assert.Equal(t, models.CacheTypeNone, config.GetCacheTypeForPath("/ping"))
	assert.Equal(t, 60*time.Second, config.GetTtlForCacheType(models.CacheTypeShort))
	assert.Equal(t, 24*time.Hour, config.GetTtlForCacheType(models.CacheTypePermanent))
	assert.Equal(t, 0.25, config.GetStaleRatio())
}

func TestLoadCacheRulesConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing ttl defaults",
			content: "cache_rules:\n  /global: short\n",
			wantErr: "missing ttl_defaults section",
		},
		{
			name:    "missing cache rules",
			content: "ttl_defaults:\n  short: 60s\n",
			wantErr: "missing cache_rules section",
		},
		{
			name:    "invalid cache type",
			content: "ttl_defaults:\n  short: 60s\ncache_rules:\n  /global: forever\n",
			wantErr: "invalid cache type",
		},
		{
			name:    "stale ratio out of range",
			content: "ttl_defaults:\n  short: 60s\nstale_ratio: 20\ncache_rules:\n  /global: short\n",
			wantErr: "stale_ratio",
		},
		{
			name:    "malformed yaml",
			content: "ttl_defaults: [",
			wantErr: "failed to decode YAML cache rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCacheRulesConfig(createTempYAMLFile(t, tt.content), zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCacheRulesConfig_MissingFile(t *testing.T) {
	_, err := LoadCacheRulesConfig(filepath.Join(t.TempDir(), "missing.yaml"), zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open cache rules file")
}
