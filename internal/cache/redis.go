package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs the cache with Redis when REDIS_URL is configured,
// so multiple server processes share lookups.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance named by url.
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(key string) ([]byte, bool) {
	value, err := c.client.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) {
	c.client.Set(context.Background(), key, value, ttl)
}

func (c *RedisCache) Delete(key string) {
	c.client.Del(context.Background(), key)
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
