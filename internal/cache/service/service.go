package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/metrics"
	"go-market-cache/internal/models"
	"go-market-cache/internal/utils"
)

// CacheService answers proxied upstream GETs from the multi-level response cache
type CacheService struct {
	cache           interfaces.LevelAwareCache
	keyBuilder      interfaces.KeyBuilder
	cacheClassifier interfaces.CacheRulesClassifier
	transport       interfaces.Transport
	group           singleflight.Group
	logger          *zap.Logger
}

// NewCacheService creates a new cache service instance
func NewCacheService(
	cache interfaces.LevelAwareCache,
	keyBuilder interfaces.KeyBuilder,
	cacheClassifier interfaces.CacheRulesClassifier,
	transport interfaces.Transport,
	logger *zap.Logger,
) *CacheService {
	return &CacheService{
		cache:           cache,
		keyBuilder:      keyBuilder,
		cacheClassifier: cacheClassifier,
		transport:       transport,
		logger:          logger,
	}
}

// FetchResponse is a payload together with how it was obtained
type FetchResponse struct {
	Data       []byte             `json:"-"`
	Key        string             `json:"key"`
	Status     models.CacheStatus `json:"status"`
	CacheType  models.CacheType   `json:"cache_type"`
	CacheLevel models.CacheLevel  `json:"cache_level"`
	// Err is the upstream failure that made a stale entry be served
	Err error `json:"-"`
}

// Fetch returns the payload for an upstream GET. Fresh entries are served from cache;
// misses and stale entries go upstream once per key; a failed upstream call falls back
// to a stale entry when one is still servable.
func (s *CacheService) Fetch(ctx context.Context, path string, params url.Values) (*FetchResponse, error) {
	key, err := s.keyBuilder.Build(path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache key: %w", err)
	}

	cacheInfo := s.cacheClassifier.GetTtl(path)
	cacheType := string(cacheInfo.CacheType)
	metrics.RecordCacheRequest(cacheType)

	resp := &FetchResponse{
		Key:        key,
		CacheType:  cacheInfo.CacheType,
		CacheLevel: models.CacheLevelMiss,
	}

	if cacheInfo.TTL == 0 {
		data, err := s.transport.Get(ctx, path, params)
		if err != nil {
			return nil, err
		}
		resp.Data = data
		resp.Status = models.CacheStatusBypass
		return resp, nil
	}

	result := s.cache.GetWithLevel(key)
	if result.Found && result.Entry.IsFresh() {
		metrics.RecordCacheHit(cacheType, strings.ToLower(string(result.Level)))
		resp.Data = result.Entry.Data
		resp.Status = models.CacheStatusHit
		resp.CacheLevel = result.Level
		return resp, nil
	}
	metrics.RecordCacheMiss(cacheType)

	data, err := s.fetchUpstream(ctx, key, path, params, cacheInfo)
	if err == nil {
		resp.Data = data
		resp.Status = models.CacheStatusMiss
		return resp, nil
	}

	stale := result
	if !stale.Found {
		stale = s.cache.GetStaleWithLevel(key)
	}
	if !stale.Found || ctx.Err() != nil {
		return nil, err
	}

	s.logger.Warn("serving stale response after upstream failure",
		zap.String("key", key),
		zap.String("level", string(stale.Level)),
		zap.Error(err))
	metrics.RecordStaleServed(cacheType)
	resp.Data = stale.Entry.Data
	resp.Status = models.CacheStatusStale
	resp.CacheLevel = stale.Level
	resp.Err = err
	return resp, nil
}

// fetchUpstream calls the transport once per key for concurrent callers and stores
// cacheable payloads
func (s *CacheService) fetchUpstream(ctx context.Context, key, path string, params url.Values, cacheInfo models.CacheInfo) ([]byte, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		// The first caller's cancellation must not fail the callers that joined it
		data, err := s.transport.Get(context.WithoutCancel(ctx), path, params)
		if err != nil {
			return nil, err
		}
		if utils.IsEmptyPayload(data) || utils.IsErrorPayload(data) {
			s.logger.Debug("not caching empty or error payload", zap.String("key", key))
			return data, nil
		}
		s.cache.Set(key, data, s.cacheClassifier.StaleTtl(path, cacheInfo))
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CacheInfo returns the cache type and fresh TTL in seconds for a path
func (s *CacheService) CacheInfo(path string) (models.CacheType, int) {
	info := s.cacheClassifier.GetTtl(path)
	return info.CacheType, int(info.TTL.Seconds())
}

// Invalidate removes the cached payload of an upstream GET from every level
func (s *CacheService) Invalidate(path string, params url.Values) error {
	key, err := s.keyBuilder.Build(path, params)
	if err != nil {
		return fmt.Errorf("failed to build cache key: %w", err)
	}
	s.cache.Delete(key)
	return nil
}
