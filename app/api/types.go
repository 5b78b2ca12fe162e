package api

import (
	"context"
	"time"

	"github.com/lysyi3m/pharma-pulse/app/cache"
	"github.com/lysyi3m/pharma-pulse/app/feed"
	"github.com/lysyi3m/pharma-pulse/app/news"
	"github.com/lysyi3m/pharma-pulse/app/newsapi"
	"github.com/lysyi3m/pharma-pulse/app/reader"
	"github.com/lysyi3m/pharma-pulse/app/tasks"
)

// ProxyInterface is the raw provider call behind GET /api/news.
type ProxyInterface interface {
	URL() string
	Do(ctx context.Context) (*newsapi.RawResponse, error)
}

var _ ProxyInterface = (*newsapi.Client)(nil)

type GeneratorInterface interface {
	Run(channel feed.Channel, articles []news.Article) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type HandlerOptions struct {
	Proxy     ProxyInterface
	Cache     cache.CacheInterface
	CacheTTL  time.Duration
	Registry  *news.Registry
	Scheduler tasks.TaskSchedulerInterface
	Extractor tasks.Extractor
	Contents  *reader.Store
	Generator GeneratorInterface
	BaseURL   string
	Version   string
}

type Handler struct {
	proxy     ProxyInterface
	cache     cache.CacheInterface
	cacheTTL  time.Duration
	registry  *news.Registry
	scheduler tasks.TaskSchedulerInterface
	extractor tasks.Extractor
	contents  *reader.Store
	generator GeneratorInterface
	baseURL   string
	version   string
	startedAt time.Time
	now       func() time.Time
}
