package models

import (
	"net/url"
	"sort"
	"strings"
)

// Resource names understood by the market accessors
const (
	ResourceMarketListing = "market-listing"
	ResourceGlobalStats   = "global-stats"
	ResourceCoinDetail    = "coin-detail"
	ResourceSearch        = "search"
	ResourceWalletBalance = "wallet-balance"
)

// ResourceKey identifies a cacheable query: a resource name plus its parameters.
// Keys are compared by their canonical string form.
type ResourceKey struct {
	Resource string
	Params   map[string]string
}

// NewResourceKey builds a key from alternating name/value parameter pairs
func NewResourceKey(resource string, kv ...string) ResourceKey {
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return ResourceKey{Resource: resource, Params: params}
}

// String returns the canonical form resource?k1=v1&k2=v2 with sorted parameter names
func (k ResourceKey) String() string {
	if len(k.Params) == 0 {
		return k.Resource
	}

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(k.Resource)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(k.Params[name]))
	}
	return b.String()
}

// Equal reports whether two keys identify the same cache entry
func (k ResourceKey) Equal(other ResourceKey) bool {
	return k.String() == other.String()
}

// Param returns a single parameter value
func (k ResourceKey) Param(name string) string {
	return k.Params[name]
}
