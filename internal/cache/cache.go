// Package cache provides a small string cache used for stock listings and
// finance quotes. A Redis implementation backs production; an in-memory
// implementation backs tests and database-less runs. Cache failures are
// always treated as misses.
package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache surface consumed by the HTTP server.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
