//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foundry/internal/platform/config"
	platformredis "foundry/internal/platform/redis"
	"foundry/internal/ratelimit"
	"foundry/pkg/testutil/containers"
)

func newRedisStore(t *testing.T) *ratelimit.RedisStore {
	t.Helper()
	redisC := containers.NewRedisContainer(t)
	client, err := platformredis.New(config.RedisConfig{URL: redisC.URL})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return ratelimit.NewRedisStore(client)
}

func TestRedisStoreCountsPerKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	store := newRedisStore(t)

	for i := 0; i < 3; i++ {
		result, err := store.Allow(ctx, "1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, result.Allowed, "request %d should be allowed", i+1)
	}

	blocked, err := store.Allow(ctx, "1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, blocked.Allowed)
	require.Zero(t, blocked.Remaining)

	other, err := store.Allow(ctx, "5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, other.Allowed, "keys must be counted independently")
}

func TestRedisStoreWindowResets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	store := newRedisStore(t)
	window := 200 * time.Millisecond

	first, err := store.Allow(ctx, "9.9.9.9", 1, window)
	require.NoError(t, err)
	require.True(t, first.Allowed)

	blocked, err := store.Allow(ctx, "9.9.9.9", 1, window)
	require.NoError(t, err)
	require.False(t, blocked.Allowed)

	require.Eventually(t, func() bool {
		result, err := store.Allow(ctx, "9.9.9.9", 1, window)
		return err == nil && result.Allowed
	}, 2*time.Second, 50*time.Millisecond, "counter should expire with the window")
}
