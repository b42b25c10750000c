package utils

import (
	"net/url"
	"path"
	"sort"
	"strings"
)

// coinsCollections are the /coins/<segment> paths that are not coin ids
var coinsCollections = map[string]bool{
	"markets":    true,
	"list":       true,
	"categories": true,
}

// NormalizePath cleans an API path so that equivalent spellings map to one key
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	cleaned := path.Clean(p)
	return cleaned
}

// EndpointPattern maps a concrete API path to its route pattern,
// e.g. /coins/bitcoin -> /coins/{id}. Used for bounded metric labels and cache rules.
func EndpointPattern(p string) string {
	p = NormalizePath(p)
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	if len(segments) >= 2 && segments[0] == "coins" && !coinsCollections[segments[1]] {
		segments[1] = "{id}"
	}
	return "/" + strings.Join(segments, "/")
}

// FilterParams returns a copy of params with empty values dropped and values sorted
func FilterParams(params url.Values) url.Values {
	filtered := make(url.Values, len(params))
	for name, values := range params {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var kept []string
		for _, v := range values {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			continue
		}
		sort.Strings(kept)
		filtered[name] = kept
	}
	return filtered
}
