package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract used by services.
// The Redis implementation lives in internal/infrastructure/cache.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found is false on a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error

	// IncrementWindow atomically increments the counter at key and gives it
	// a TTL of window whenever it has none, so a counter never outlives
	// its window.
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}
