package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travlrgetaways/travlr/pkg/cache"
)

const redisQueueKey = "travlr:queue:jobs"

type redisDriver struct {
	client *redis.Client
}

func newRedisDriver() (*redisDriver, error) {
	client := cache.Client()
	if client == nil {
		return nil, fmt.Errorf("queue: redis driver requires REDIS_ADDR")
	}
	return &redisDriver{client: client}, nil
}

func (r *redisDriver) Push(ctx context.Context, payload []byte) error {
	return r.client.RPush(ctx, redisQueueKey, payload).Err()
}

func (r *redisDriver) Pop(ctx context.Context) ([]byte, error) {
	for {
		res, err := r.client.BLPop(ctx, 5*time.Second, redisQueueKey).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		// BLPop returns [key, value].
		return []byte(res[1]), nil
	}
}
