package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-market-cache/internal/metrics"
	"go-market-cache/internal/query"
)

func TestGetKeyDBURL(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("environment variable wins", func(t *testing.T) {
		t.Setenv("KEYDB_URL", "redis://env:6379")
		assert.Equal(t, "redis://env:6379", GetKeyDBURL(logger))
	})

	t.Run("connection file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "keydb-url")
		require.NoError(t, os.WriteFile(file, []byte("  redis://file:6379\n"), 0o600))
		t.Setenv("KEYDB_URL", "")
		t.Setenv("MARKET_CACHE_KEYDB_URL_FILE", file)
		assert.Equal(t, "redis://file:6379", GetKeyDBURL(logger))
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("KEYDB_URL", "")
		t.Setenv("MARKET_CACHE_KEYDB_URL_FILE", filepath.Join(t.TempDir(), "missing"))
		assert.Equal(t, defaultKeyDBURL, GetKeyDBURL(logger))
	})
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	assert.True(t, fileExists(file))
	assert.False(t, fileExists(filepath.Join(dir, "nope.yaml")))
}

func TestQueryMetrics_RecordRead(t *testing.T) {
	counter := metrics.QueryReads.WithLabelValues("adapter-test", string(query.OutcomeStale))
	before := testutil.ToFloat64(counter)

	QueryMetrics{}.RecordRead("adapter-test", query.OutcomeStale)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
