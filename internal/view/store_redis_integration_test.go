//go:build integration

package view_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foundry/internal/platform/config"
	platformredis "foundry/internal/platform/redis"
	"foundry/internal/view"
	"foundry/pkg/testutil/containers"
)

func newMarkerStore(t *testing.T) *view.RedisMarkerStore {
	t.Helper()
	redisC := containers.NewRedisContainer(t)
	client, err := platformredis.New(config.RedisConfig{URL: redisC.URL})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return view.NewRedisMarkerStore(client)
}

func TestRedisMarkerStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	store := newMarkerStore(t)

	set, err := store.Mark(ctx, "view:s1:u1", time.Minute)
	require.NoError(t, err)
	require.True(t, set, "first mark should win the SetNX")

	set, err = store.Mark(ctx, "view:s1:u1", time.Minute)
	require.NoError(t, err)
	require.False(t, set, "second mark should lose the SetNX")

	exists, err := store.Exists(ctx, "view:s1:u1")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = store.Exists(ctx, "view:s1:other")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRedisMarkerExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	store := newMarkerStore(t)

	_, err := store.Mark(ctx, "view:s1:ttl", 100*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		exists, err := store.Exists(ctx, "view:s1:ttl")
		return err == nil && !exists
	}, 2*time.Second, 50*time.Millisecond, "marker should expire with its TTL")
}
