package ratelimit

import (
	"context"
	"fmt"
	"time"

	platformredis "foundry/internal/platform/redis"
)

// RedisStore counts requests with a fixed window per key, shared across
// instances. INCR plus a first-write EXPIRE keeps it one round trip in
// the common case.
type RedisStore struct {
	client *platformredis.Client
}

func NewRedisStore(client *platformredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	redisKey := "ratelimit:" + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return nil, fmt.Errorf("expire rate limit counter: %w", err)
		}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   int(count) <= limit,
		Remaining: remaining,
		Limit:     limit,
		ResetAt:   time.Now().Add(window),
	}, nil
}
