package cache

import (
	"context"
	"time"
)

// CacheInterface is the short-lived response cache in front of the news
// provider. A miss is reported as ok == false with a nil error.
type CacheInterface interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Health(ctx context.Context) map[string]any
	Close() error
}
