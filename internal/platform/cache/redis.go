// Package cache provides the process-wide Redis client used for read-through
// caching of catalog records.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a minimal string cache. Get returns ("", nil) on a miss so callers
// can treat misses and absent values uniformly.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Key(parts ...any) string
}

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis dials a Redis instance and returns a namespaced cache. The
// connection is verified so wiring can fall back when Redis is unreachable.
func NewRedis(ctx context.Context, addr, prefix string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisCache{client: client, prefix: prefix}, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *redisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCache) Key(parts ...any) string {
	key := r.prefix
	for _, part := range parts {
		key += fmt.Sprintf(":%v", part)
	}
	return key
}
