package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core request/hit/miss counters of the proxy response cache
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of cache requests",
		},
		[]string{"cache_type"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type", "level"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheStaleServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_stale_served_total",
			Help: "Total number of stale responses served because the upstream failed",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache errors",
		},
		[]string{"level", "kind"},
	)

	// Get operation latency only
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache get operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "level"},
	)

	// L1 capacity metrics only (if L1 is in-memory)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_used_bytes",
			Help: "L1 cache used space in bytes",
		},
		[]string{"level"},
	)

	CacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_keys",
			Help: "Number of keys held per cache level",
		},
		[]string{"level"},
	)

	// Upstream market-data API
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of market-data API attempts by endpoint and outcome category",
		},
		[]string{"endpoint", "category"},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_rate_limit_retries_total",
			Help: "Total number of retries caused by HTTP 429 responses",
		},
		[]string{"endpoint"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of market-data API attempts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Query layer
	QueryReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_reads_total",
			Help: "Total number of query reads by resource and freshness outcome",
		},
		[]string{"resource", "outcome"},
	)

	QueryFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_fetches_total",
			Help: "Total number of query fetches by resource and outcome category",
		},
		[]string{"resource", "category"},
	)

	QueryFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "query_fetch_duration_seconds",
			Help:    "Duration of query fetches including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	StreamSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stream_subscribers",
			Help: "Number of open live stream subscriptions",
		},
		[]string{"resource"},
	)
)

// RecordCacheRequest records a cache request
func RecordCacheRequest(cacheType string) {
	CacheRequests.WithLabelValues(cacheType).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit(cacheType string, level string) {
	CacheHits.WithLabelValues(cacheType, level).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordStaleServed records a stale-if-error response
func RecordStaleServed(cacheType string) {
	CacheStaleServed.WithLabelValues(cacheType).Inc()
}

// RecordCacheError records a cache error with level and kind
func RecordCacheError(level, kind string) {
	CacheErrors.WithLabelValues(level, kind).Inc()
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics only
func UpdateL1CacheCapacity(capacity, used int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
	CacheUsed.WithLabelValues("l1").Set(float64(used))
}

// UpdateCacheKeys updates the number of keys in cache
func UpdateCacheKeys(level string, count int64) {
	CacheKeys.WithLabelValues(level).Set(float64(count))
}

// TimeCacheGetOperation returns a timer function for measuring cache get operation duration
func TimeCacheGetOperation(level string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues("get", level))
	return func() {
		timer.ObserveDuration()
	}
}

// RecordUpstreamRequest records one attempt against the market-data API
func RecordUpstreamRequest(endpoint string, category ErrorCategory, duration time.Duration) {
	UpstreamRequests.WithLabelValues(endpoint, string(category)).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordUpstreamRetry records a rate-limit retry
func RecordUpstreamRetry(endpoint string) {
	UpstreamRetries.WithLabelValues(endpoint).Inc()
}

// RecordQueryRead records how a query read was served
func RecordQueryRead(resource, outcome string) {
	QueryReads.WithLabelValues(resource, outcome).Inc()
}

// RecordQueryFetch records a finished query fetch
func RecordQueryFetch(resource string, category ErrorCategory, duration time.Duration) {
	QueryFetches.WithLabelValues(resource, string(category)).Inc()
	QueryFetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// StreamOpened increments the live stream gauge
func StreamOpened(resource string) {
	StreamSubscribers.WithLabelValues(resource).Inc()
}

// StreamClosed decrements the live stream gauge
func StreamClosed(resource string) {
	StreamSubscribers.WithLabelValues(resource).Dec()
}
