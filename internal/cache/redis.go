package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Cache on a Redis server.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a cache talking to the Redis server at addr.
func NewRedis(addr string) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{client: rdb}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
