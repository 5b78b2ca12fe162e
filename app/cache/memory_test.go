package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	c := NewMemory(0, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", time.Minute)

	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Errorf("Expected hit with 'v', got %q %v %v", got, ok, err)
	}
	if _, ok, _ := c.Get(ctx, "other"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestMemoryEntryExpiry(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	c := NewMemory(0, time.Hour)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", 60*time.Second)

	now = now.Add(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Error("Expected entry to be fresh before its TTL")
	}

	now = now.Add(time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Expected entry to expire at its TTL")
	}
	if n := c.Health(ctx)["key_count"]; n != 0 {
		t.Errorf("Expected expired entry to be dropped, got %v keys", n)
	}
}

func TestMemoryMaxTTL(t *testing.T) {
	c := NewMemory(0, 20*time.Millisecond)
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", time.Hour)
	time.Sleep(60 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Expected entry to expire at the cache TTL cap")
	}
}

func TestMemorySizeBound(t *testing.T) {
	c := NewMemory(2, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "a", "1", time.Minute)
	_ = c.Set(ctx, "b", "2", time.Minute)
	_ = c.Set(ctx, "c", "3", time.Minute)

	if n := c.Health(ctx)["key_count"]; n != 2 {
		t.Errorf("Expected 2 keys, got %v", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("Expected least recently used key to be evicted")
	}
	if got, ok, _ := c.Get(ctx, "c"); !ok || got != "3" {
		t.Errorf("Expected newest key to be kept, got %q %v", got, ok)
	}
}

func TestMemoryDelete(t *testing.T) {
	c := NewMemory(0, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", time.Minute)
	_ = c.Delete(ctx, "k")

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Expected key to be deleted")
	}
}
