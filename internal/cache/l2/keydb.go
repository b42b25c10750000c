package l2

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-market-cache/internal/config"
	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/metrics"
	"go-market-cache/internal/models"
)

const levelName = "l2"

// Ensure KeyDBCache implements interfaces.Cache
var _ interfaces.Cache = (*KeyDBCache)(nil)

// KeyDBCache is the shared response cache level backed by KeyDB
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) *KeyDBCache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Get returns an entry that has not expired
func (kc *KeyDBCache) Get(key string) (*models.CacheEntry, bool) {
	defer metrics.TimeCacheGetOperation(levelName)()
	return kc.lookup(key)
}

// GetStale returns an entry that may be served after an upstream failure
func (kc *KeyDBCache) GetStale(key string) (*models.CacheEntry, bool) {
	return kc.lookup(key)
}

func (kc *KeyDBCache) lookup(key string) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
	defer cancel()

	raw, err := kc.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			kc.logger.Warn("l2 get failed", zap.String("key", key), zap.Error(err))
			metrics.RecordCacheError(levelName, "read")
		}
		return nil, false
	}

	var entry models.CacheEntry
	if err := sonic.Unmarshal(raw, &entry); err != nil {
		kc.logger.Warn("dropping undecodable l2 entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(levelName, "decode")
		kc.Delete(key)
		return nil, false
	}

	// KeyDB expires the key itself; this covers clock skew between writers
	if entry.IsExpired() {
		return nil, false
	}
	return &entry, true
}

// Set stores val with a KeyDB expiration of ttl.Fresh plus ttl.Stale
func (kc *KeyDBCache) Set(key string, val []byte, ttl models.TTL) {
	entry := models.NewCacheEntry(val, ttl, time.Now())
	kc.store(key, &entry, ttl.Fresh+ttl.Stale)
}

// SetEntry stores an entry keeping its original timestamps
func (kc *KeyDBCache) SetEntry(key string, entry *models.CacheEntry) {
	if entry == nil {
		return
	}
	remaining := time.Until(time.Unix(entry.ExpiresAt, 0))
	if remaining <= 0 {
		return
	}
	kc.store(key, entry, remaining)
}

func (kc *KeyDBCache) store(key string, entry *models.CacheEntry, expiration time.Duration) {
	raw, err := sonic.Marshal(entry)
	if err != nil {
		kc.logger.Error("failed to encode l2 entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(levelName, "encode")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.Set(ctx, key, raw, expiration).Err(); err != nil {
		kc.logger.Warn("l2 set failed", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(levelName, "store")
	}
}

// Delete removes entry from KeyDB
func (kc *KeyDBCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.Del(ctx, key).Err(); err != nil {
		kc.logger.Warn("l2 delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping checks that KeyDB is reachable
func (kc *KeyDBCache) Ping(ctx context.Context) error {
	return kc.client.Ping(ctx).Err()
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}
