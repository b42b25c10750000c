package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"go-market-cache/internal/interfaces"
)

const keyDBPrefix = "market-cache:prefs:"

// KeyDBBackend stores preferences in KeyDB/Redis without expiry
type KeyDBBackend struct {
	client  interfaces.KeyDbClient
	timeout time.Duration
}

// NewKeyDBBackend creates a backend on an existing KeyDB client
func NewKeyDBBackend(client interfaces.KeyDbClient, timeout time.Duration) *KeyDBBackend {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &KeyDBBackend{client: client, timeout: timeout}
}

func (k *KeyDBBackend) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	v, err := k.client.Get(ctx, keyDBPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keydb get %s: %w", key, err)
	}
	return v, true, nil
}

func (k *KeyDBBackend) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	if err := k.client.Set(ctx, keyDBPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("keydb set %s: %w", key, err)
	}
	return nil
}

func (k *KeyDBBackend) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	if err := k.client.Del(ctx, keyDBPrefix+key).Err(); err != nil {
		return fmt.Errorf("keydb del %s: %w", key, err)
	}
	return nil
}
