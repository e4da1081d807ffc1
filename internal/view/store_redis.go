package view

import (
	"context"
	"fmt"
	"time"

	platformredis "foundry/internal/platform/redis"
)

// RedisMarkerStore keeps dedup markers in Redis so the window holds across
// server instances, unlike the per-browser cookie.
type RedisMarkerStore struct {
	client *platformredis.Client
}

func NewRedisMarkerStore(client *platformredis.Client) *RedisMarkerStore {
	return &RedisMarkerStore{client: client}
}

func (s *RedisMarkerStore) Mark(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("set view marker: %w", err)
	}
	return set, nil
}

func (s *RedisMarkerStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check view marker: %w", err)
	}
	return n > 0, nil
}
