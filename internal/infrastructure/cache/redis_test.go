package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRedis(t *testing.T) *RedisCache {
	t.Helper()

	addr := os.Getenv("MOMENTS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MOMENTS_TEST_REDIS_ADDR not set")
	}

	c := NewRedisCache(addr, os.Getenv("MOMENTS_TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_IncrementWindow(t *testing.T) {
	c := openRedis(t)
	ctx := context.Background()
	key := "test:rl:" + uuid.NewString()
	t.Cleanup(func() { _ = c.Delete(context.Background(), key) })

	for want := int64(1); want <= 3; want++ {
		n, err := c.IncrementWindow(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	ttl, err := c.Client().PTTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisCache_IncrementWindowRestoresMissingTTL(t *testing.T) {
	c := openRedis(t)
	ctx := context.Background()
	key := "test:rl:" + uuid.NewString()
	t.Cleanup(func() { _ = c.Delete(context.Background(), key) })

	require.NoError(t, c.Client().Set(ctx, key, 41, 0).Err())

	n, err := c.IncrementWindow(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	ttl, err := c.Client().PTTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}
