package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Response is a cached provider reply, stored as JSON.
type Response struct {
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	CachedAt    time.Time `json:"cached_at"`
}

func SetResponse(ctx context.Context, c CacheInterface, key string, r Response, ttl time.Duration) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal response for key %s: %w", key, err)
	}
	return c.Set(ctx, key, string(data), ttl)
}

// GetResponse returns a cached response. Entries that fail to decode are
// removed and reported as a miss.
func GetResponse(ctx context.Context, c CacheInterface, key string) (Response, bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return Response{}, false, err
	}

	var r Response
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		_ = c.Delete(ctx, key)
		return Response{}, false, nil
	}
	return r, true, nil
}
