package l2

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-market-cache/internal/config"
	"go-market-cache/internal/interfaces"
)

// Ensure RedisKeyDbClient implements interfaces.KeyDbClient
var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient wraps redis.Client to implement KeyDbClient interface
type RedisKeyDbClient struct {
	client *redis.Client
}

// NewRedisKeyDbClient connects to the KeyDB instance at keydbURL (redis://[:password@]host[:port][/db])
// and verifies the connection with a PING.
func NewRedisKeyDbClient(cfg config.KeyDBConfig, keydbURL string, logger *zap.Logger) (*RedisKeyDbClient, error) {
	opts, err := redis.ParseURL(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KeyDB URL: %w", err)
	}
	opts.DialTimeout = cfg.Connection.ConnectTimeout
	opts.ReadTimeout = cfg.Connection.ReadTimeout
	opts.WriteTimeout = cfg.Connection.SendTimeout
	opts.PoolSize = cfg.Keepalive.PoolSize
	opts.IdleTimeout = cfg.Keepalive.MaxIdleTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Connection.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to KeyDB at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to KeyDB",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Int("pool_size", opts.PoolSize))

	return &RedisKeyDbClient{client: client}, nil
}

func (r *RedisKeyDbClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.client.Get(ctx, key)
}

func (r *RedisKeyDbClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return r.client.Set(ctx, key, value, expiration)
}

func (r *RedisKeyDbClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.client.Del(ctx, keys...)
}

func (r *RedisKeyDbClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

func (r *RedisKeyDbClient) Close() error {
	return r.client.Close()
}
