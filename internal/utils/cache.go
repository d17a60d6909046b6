package utils

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// Cache is a fixed-size LRU whose entries also expire after a TTL.
type Cache[V any] struct {
	lruCache *lru.Cache[string, cacheItem[V]]
	ttl      time.Duration
	now      func() time.Time
}

// NewCache creates a cache holding at most size entries, each living for ttl.
func NewCache[V any](size int, ttl time.Duration) *Cache[V] {
	l, err := lru.New[string, cacheItem[V]](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &Cache[V]{lruCache: l, ttl: ttl, now: time.Now}
}

func (c *Cache[V]) Set(key string, data V) {
	c.lruCache.Add(key, cacheItem[V]{
		Data:      data,
		ExpiresAt: c.now().Add(c.ttl),
	})
}

// Get returns the cached value, or ok=false when it is missing or expired.
func (c *Cache[V]) Get(key string) (data V, ok bool) {
	val, found := c.lruCache.Get(key)
	if !found {
		return data, false
	}

	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return data, false
	}

	return val.Data, true
}

func (c *Cache[V]) Delete(key string) {
	c.lruCache.Remove(key)
}

func (c *Cache[V]) Len() int {
	return c.lruCache.Len()
}
