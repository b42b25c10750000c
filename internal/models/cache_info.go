package models

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheType represents how long a proxied endpoint response may be cached
type CacheType string

const (
	CacheTypePermanent CacheType = "permanent"
	CacheTypeLong      CacheType = "long"
	CacheTypeShort     CacheType = "short"
	CacheTypeMinimal   CacheType = "minimal"
	CacheTypeNone      CacheType = "none"
)

// UnmarshalYAML implements custom YAML unmarshaling for CacheType
func (c *CacheType) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "permanent", "long", "short", "minimal", "none":
		*c = CacheType(str)
		return nil
	default:
		return fmt.Errorf("invalid cache type '%s': must be one of 'permanent', 'long', 'short', 'minimal', 'none'", str)
	}
}

// CacheInfo contains cache configuration information
type CacheInfo struct {
	TTL       time.Duration `json:"ttl"`
	CacheType CacheType     `json:"cache_type"`
}

// TTL represents cache time-to-live configuration
type TTL struct {
	Fresh time.Duration // How long the data is considered fresh
	Stale time.Duration // How long stale data can be served (stale-if-error)
}

// CacheLevel identifies which cache level served a value
type CacheLevel string

const (
	CacheLevelL1   CacheLevel = "L1"
	CacheLevelL2   CacheLevel = "L2"
	CacheLevelMiss CacheLevel = "MISS"
)

// CacheStatus is reported to proxy clients in the X-Cache-Status header
type CacheStatus string

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusStale  CacheStatus = "STALE"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusBypass CacheStatus = "BYPASS"
)

// CacheEntry is the stored representation of a proxied upstream payload
type CacheEntry struct {
	Data      []byte `json:"data"`
	CreatedAt int64  `json:"created_at"`
	StaleAt   int64  `json:"stale_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewCacheEntry builds an entry that is fresh for ttl.Fresh and servable as stale for ttl.Stale after that
func NewCacheEntry(data []byte, ttl TTL, now time.Time) CacheEntry {
	created := now.Unix()
	return CacheEntry{
		Data:      data,
		CreatedAt: created,
		StaleAt:   created + int64(ttl.Fresh.Seconds()),
		ExpiresAt: created + int64(ttl.Fresh.Seconds()) + int64(ttl.Stale.Seconds()),
	}
}

// IsFresh reports whether the entry is still within its fresh window
func (e *CacheEntry) IsFresh() bool {
	return time.Now().Unix() < e.StaleAt
}

// IsExpired reports whether the entry can no longer be served, not even as stale
func (e *CacheEntry) IsExpired() bool {
	return time.Now().Unix() >= e.ExpiresAt
}

// CacheResult pairs an entry with the level it was found in
type CacheResult struct {
	Entry *CacheEntry
	Level CacheLevel
	Found bool
}
