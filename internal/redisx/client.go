// Package redisx holds the Redis-backed helpers: order cache, create-order
// idempotency and consumer-side event deduplication.
package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-stock-orders/internal/config"
)

func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DialTimeout: cfg.DialTimeout,
	})
}

// Ping checks connectivity at startup.
func Ping(ctx context.Context, rdb *redis.Client) error {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}
