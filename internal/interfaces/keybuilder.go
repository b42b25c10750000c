package interfaces

import "net/url"

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes upstream requests into deterministic cache keys
type KeyBuilder interface {
	// Build returns the cache key for an upstream path and its query parameters
	Build(path string, params url.Values) (string, error)
}
