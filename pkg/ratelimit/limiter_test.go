package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/pkg/cache"
)

// flakyCache fails the next fail counter updates.
type flakyCache struct {
	*cache.MemoryCache
	fail int
}

func (f *flakyCache) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	if f.fail > 0 {
		f.fail--
		return 0, errors.New("redis down")
	}
	return f.MemoryCache.IncrementWindow(ctx, key, window)
}

func TestLimiter_Allow(t *testing.T) {
	c := cache.NewMemoryCache()
	l := NewLimiter(c, "rl:moment")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "u1", 3, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d should pass", i+1)
	}

	ok, err := l.Allow(ctx, "u1", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "u2", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")

	ttl, err := c.TTL(ctx, "rl:moment:u1")
	require.NoError(t, err)
	assert.InDelta(t, time.Hour, ttl, float64(time.Second))
}

func TestLimiter_ZeroLimitDenies(t *testing.T) {
	l := NewLimiter(cache.NewMemoryCache(), "rl")
	ok, err := l.Allow(context.Background(), "u1", 0, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiter_PropagatesCacheError(t *testing.T) {
	l := NewLimiter(&flakyCache{MemoryCache: cache.NewMemoryCache(), fail: 1}, "rl")

	_, err := l.Allow(context.Background(), "u1", 5, time.Minute)
	assert.Error(t, err)
}

func TestLimiter_WindowAlwaysExpires(t *testing.T) {
	c := &flakyCache{MemoryCache: cache.NewMemoryCache(), fail: 1}
	l := NewLimiter(c, "rl")
	ctx := context.Background()

	_, err := l.Allow(ctx, "u1", 1, time.Minute)
	require.Error(t, err)

	ok, err := l.Allow(ctx, "u1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "a failed hit is not counted")

	ttl, err := c.TTL(ctx, "rl:u1")
	require.NoError(t, err)
	assert.Positive(t, ttl)

	// a counter left without a TTL gets one on its next hit
	require.NoError(t, c.Set(ctx, "rl:u2", 9, 0))
	ok, err = l.Allow(ctx, "u2", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err = c.TTL(ctx, "rl:u2")
	require.NoError(t, err)
	assert.Positive(t, ttl)
}

func testQuotas() Quotas {
	return Quotas{
		MomentBase: 3, MomentPerTrustLevel: 2, MomentVerifiedBonus: 2, MomentWindow: 24 * time.Hour,
		ApplyBase: 10, ApplyPerTrustLevel: 5, ApplyWindow: time.Hour,
	}
}

func TestPolicy_Limits(t *testing.T) {
	p := NewPolicy(NewLimiter(cache.NewMemoryCache(), "rl"), testQuotas())

	assert.Equal(t, 3, p.MomentLimit(0, false))
	assert.Equal(t, 7, p.MomentLimit(2, false))
	assert.Equal(t, 9, p.MomentLimit(2, true))
	assert.Equal(t, 3, p.MomentLimit(-1, false))
	assert.Equal(t, 10, p.ApplyLimit(0))
	assert.Equal(t, 20, p.ApplyLimit(2))
}

func TestPolicy_CanCreateMoment(t *testing.T) {
	c := cache.NewMemoryCache()
	p := NewPolicy(NewLimiter(c, "rl"), testQuotas())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := p.CanCreateMoment(ctx, "u1", 0, false)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := p.CanCreateMoment(ctx, "u1", 0, false)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := c.TTL(ctx, "rl:moment:u1")
	require.NoError(t, err)
	assert.InDelta(t, 24*time.Hour, ttl, float64(time.Second))

	ok, err = p.CanApply(ctx, "u1", 0)
	require.NoError(t, err)
	assert.True(t, ok, "apply quota is separate")
	ttl, err = c.TTL(ctx, "rl:apply:u1")
	require.NoError(t, err)
	assert.InDelta(t, time.Hour, ttl, float64(time.Second))
}
