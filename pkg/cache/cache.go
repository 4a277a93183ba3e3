// Package cache is a small redis wrapper. When REDIS_ADDR is unset the
// client stays nil and every call degrades to a miss, so the API keeps
// working without a cache in front of Mongo.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travlrgetaways/travlr/config"
	"github.com/travlrgetaways/travlr/pkg/logger"
)

var (
	rdb *redis.Client

	ErrMiss = errors.New("cache: miss")
)

// Connect dials redis. An unreachable server is not fatal: the client
// stays nil and the application runs uncached.
func Connect(ctx context.Context) error {
	addr := config.RedisAddr()
	if addr == "" {
		logger.Info("cache: redis not configured, running without cache")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("cache: redis unreachable, running without cache", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}

	rdb = client
	logger.Info("cache: connected", "addr", addr)
	return nil
}

// Client exposes the raw client for packages that need more than get/set.
// Nil when redis is not configured.
func Client() *redis.Client {
	return rdb
}

func Get(ctx context.Context, key string) (string, error) {
	if rdb == nil {
		return "", ErrMiss
	}
	val, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, key, value, ttl).Err()
}

func Del(ctx context.Context, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

func Close() {
	if rdb != nil {
		_ = rdb.Close()
	}
}
