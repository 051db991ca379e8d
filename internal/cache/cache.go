package cache

import (
	"sync"
	"time"
)

// Cache is a byte-value TTL cache. New returns a Redis-backed cache when
// a URL is given and the in-memory implementation otherwise.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Close() error
}

// New selects the cache backend. redisURL empty means in-memory.
func New(redisURL string) (Cache, error) {
	if redisURL != "" {
		return NewRedisCache(redisURL)
	}
	return NewMemoryCache(), nil
}

// entry holds a cached value with expiration
type entry struct {
	value      []byte
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemoryCache creates a new cache instance
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]entry),
	}
}

// Get retrieves a value from cache if it exists and hasn't expired
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.items[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(e.expiration) {
		return nil, false
	}

	return e.value, true
}

// Set stores a value in cache with the given TTL
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
}

// Delete removes a key from cache
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Close is a no-op for the in-memory cache.
func (c *MemoryCache) Close() error {
	return nil
}
