package interfaces

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:generate mockgen -source=keydb_client.go -destination=mock/keydb_client.go -package=mock

// KeyDbClient is the part of the go-redis client shared by the L2 response cache
// and the keydb preference backend
type KeyDbClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	// Set stores value; a zero expiration keeps the key forever (preferences)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}
