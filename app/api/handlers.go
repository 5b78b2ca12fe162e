package api

import (
	"cmp"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/pharma-pulse/app/cache"
	"github.com/lysyi3m/pharma-pulse/app/metrics"
	"github.com/lysyi3m/pharma-pulse/app/newsapi"
	"github.com/lysyi3m/pharma-pulse/app/reader"
)

const (
	transportErrorMessage = "Unable to reach the news provider"
	providerErrorMessage  = "API Error"
)

func NewHandler(opts HandlerOptions) *Handler {
	return &Handler{
		proxy:     opts.Proxy,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		registry:  opts.Registry,
		scheduler: opts.Scheduler,
		extractor: opts.Extractor,
		contents:  opts.Contents,
		generator: opts.Generator,
		baseURL:   opts.BaseURL,
		version:   opts.Version,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// GetNews forwards the fixed provider query and relays the body verbatim.
func (h *Handler) GetNews(c *gin.Context) {
	ctx := c.Request.Context()
	caching := h.cache != nil && h.cacheTTL > 0
	key := cache.ResponseKey(h.proxy.URL())

	if caching {
		cached, ok, err := cache.GetResponse(ctx, h.cache, key)
		if err != nil {
			slog.Warn("Cache read failed", "error", err)
		} else if ok {
			metrics.ProxyRequests.WithLabelValues("hit", "ok").Inc()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, cached.ContentType, cached.Body)
			return
		}
	}

	c.Header("X-Cache", "MISS")

	raw, err := h.proxy.Do(ctx)
	if err != nil {
		slog.Error("News provider request failed", "error", err)
		metrics.ProxyRequests.WithLabelValues("miss", "transport_error").Inc()
		c.JSON(http.StatusInternalServerError, errorEnvelope(transportErrorMessage))
		return
	}

	if !raw.OK() {
		message := providerErrorMessage
		var providerErr *newsapi.ProviderError
		if _, err := newsapi.Decode(raw); errors.As(err, &providerErr) && providerErr.Message != "" {
			message = providerErr.Message
		}

		slog.Error("News provider returned an error", "status", raw.StatusCode, "message", message)
		metrics.ProxyRequests.WithLabelValues("miss", "provider_error").Inc()
		c.JSON(http.StatusBadGateway, errorEnvelope(message))
		return
	}

	contentType := cmp.Or(raw.ContentType, "application/json; charset=utf-8")

	if caching {
		entry := cache.Response{ContentType: contentType, Body: raw.Body, CachedAt: h.now()}
		if err := cache.SetResponse(ctx, h.cache, key, entry, h.cacheTTL); err != nil {
			slog.Warn("Cache write failed", "error", err)
		}
	}

	metrics.ProxyRequests.WithLabelValues("miss", "ok").Inc()
	c.Data(http.StatusOK, contentType, raw.Body)
}

func errorEnvelope(message string) gin.H {
	return gin.H{
		"status":   "error",
		"message":  message,
		"articles": []any{},
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": h.now().In(time.Local).Format(time.RFC3339),
		"sessions":  h.registry.Len(),
	}

	if h.cache != nil {
		health["cache"] = h.cache.Health(c.Request.Context())
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"version":  h.version,
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
		"sessions": h.registry.Len(),
	}

	if q, ok := h.scheduler.(interface{ QueueLength() int }); ok {
		stats["queued_tasks"] = q.QueueLength()
	}

	if h.contents != nil {
		counts := h.contents.Counts()
		stats["content"] = map[string]int{
			"pending": counts[reader.StatusPending],
			"success": counts[reader.StatusSuccess],
			"failed":  counts[reader.StatusFailed],
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "Pharma Pulse",
		"version":     h.version,
		"description": "Pharmaceutical industry news aggregation with per-session filtering, pagination and bookmarks",
		"endpoints": map[string]string{
			"news":     "/api/news",
			"sessions": "/api/sessions",
			"health":   "/health",
			"stats":    "/stats",
			"metrics":  "/metrics",
		},
	})
}
