package interfaces

import (
	"context"
	"net/url"
)

//go:generate mockgen -package=mock -source=transport.go -destination=mock/transport.go

// Transport performs read-only calls against the market-data API
type Transport interface {
	// Get issues a GET request for path with the given query parameters and returns the raw body
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
}
