package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize bounds the in-process cache.
const DefaultMemorySize = 128

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is the in-process fallback used when no Redis URL is configured. The
// LRU evicts everything older than maxTTL; a shorter ttl passed to Set is
// checked on read.
type Memory struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemory builds a cache of at most size keys. A non-positive size is
// unbounded and a non-positive maxTTL keeps entries until they are evicted.
func NewMemory(size int, maxTTL time.Duration) *Memory {
	if size < 0 {
		size = 0
	}
	return &Memory{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (c *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value for ttl, capped by the cache's maxTTL. A non-positive ttl
// leaves only the cap.
func (c *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

func (c *Memory) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *Memory) Health(ctx context.Context) map[string]any {
	return map[string]any{
		"status":    "healthy",
		"type":      "memory",
		"key_count": c.lru.Len(),
	}
}

func (c *Memory) Close() error {
	c.lru.Purge()
	return nil
}
