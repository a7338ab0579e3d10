package view

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered pages in Redis. A nil client or zero TTL disables
// caching; every method is then a no-op so callers need no guard.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs the page cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns the cached page for the scope key, if present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if !c.enabled() {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a rendered page. Best effort.
func (c *Cache) Set(ctx context.Context, key, html string) {
	if !c.enabled() {
		return
	}
	_ = c.client.Set(ctx, key, html, c.ttl).Err()
}

// Invalidate drops the cached page for the scope key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}
