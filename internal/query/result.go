package query

import (
	"context"
	"time"

	"go-market-cache/internal/models"
)

// FetchFunc loads the value of a key. It must honour ctx cancellation.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Definition binds a key to the function that loads it
type Definition struct {
	Key     models.ResourceKey
	Fetch   FetchFunc
	Options []Option
}

// Result is a point-in-time view of a cache entry
type Result struct {
	Key        models.ResourceKey
	Data       interface{}
	Status     models.QueryStatus
	Err        error
	UpdatedAt  time.Time
	IsFetching bool
}

// HasData reports whether the result carries a previously fetched value
func (r Result) HasData() bool {
	return r.Data != nil
}

// Data extracts the typed value of a result
func Data[T any](r Result) (T, bool) {
	v, ok := r.Data.(T)
	return v, ok
}

// Listener is called with the new state of an entry on every change. Deliveries for one key
// are serialised, so a listener must not block or call back into the client for the same key.
type Listener func(Result)
