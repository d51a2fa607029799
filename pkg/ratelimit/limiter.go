package ratelimit

import (
	"context"
	"fmt"
	"time"

	"moments-backend/pkg/cache"
)

// Limiter is a fixed-window counter on top of the shared cache.
// The window opens at the first hit and the counter resets when it lapses.
type Limiter struct {
	cache  cache.Cache
	prefix string
}

func NewLimiter(c cache.Cache, prefix string) *Limiter {
	return &Limiter{cache: c, prefix: prefix}
}

// Allow counts one hit against key and reports whether it is within limit.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.cache.IncrementWindow(ctx, fullKey, window)
	if err != nil {
		return false, fmt.Errorf("increment %s: %w", fullKey, err)
	}

	return count <= int64(limit), nil
}
