package query

import (
	"time"

	"go-market-cache/internal/config"
)

// Options controls freshness, refresh and retry for one query
type Options struct {
	StaleTime       time.Duration
	RefetchInterval time.Duration
	Retry           int
	RetryDelay      time.Duration
	Enabled         bool
}

// Option customises the Options of a Definition
type Option func(*Options)

func defaultOptions(cfg config.QueryConfig) Options {
	return Options{
		StaleTime:       cfg.StaleTime,
		RefetchInterval: cfg.RefetchInterval,
		Retry:           cfg.Retry,
		RetryDelay:      cfg.RetryDelay,
		Enabled:         true,
	}
}

// WithStaleTime sets how long a successful result counts as fresh
func WithStaleTime(d time.Duration) Option {
	return func(o *Options) { o.StaleTime = d }
}

// WithRefetchInterval sets the background refresh period while the key has subscribers.
// Zero disables the refresh timer.
func WithRefetchInterval(d time.Duration) Option {
	return func(o *Options) { o.RefetchInterval = d }
}

// WithRetry sets how many times a key's first fetch is retried before reporting an error
func WithRetry(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.Retry = n
	}
}

// WithRetryDelay sets the pause between retries
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithEnabled turns a query on or off. Disabled queries never fetch and report idle.
func WithEnabled(enabled bool) Option {
	return func(o *Options) { o.Enabled = enabled }
}
