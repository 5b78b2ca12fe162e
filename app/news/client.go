package news

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/lysyi3m/pharma-pulse/app/metrics"
	"github.com/lysyi3m/pharma-pulse/app/newsapi"
)

const (
	// RemovedTitle is the provider's placeholder for withdrawn articles.
	RemovedTitle = "[Removed]"

	TrendingCount = 5

	genericErrorMessage   = "API Error"
	transportErrorMessage = "Unable to reach the news provider"
)

type Provider interface {
	Everything(ctx context.Context) (*newsapi.Response, error)
}

var _ Provider = (*newsapi.Client)(nil)

// Client owns the FeedState of one consumer. Every fetch replaces the
// article list wholesale; overlapping fetches are not serialized and the
// last one to resolve wins.
type Client struct {
	provider Provider
	now      func() time.Time

	mu       sync.Mutex
	state    FeedState
	onChange func(FeedState)
}

func NewClient(provider Provider) *Client {
	return &Client{
		provider: provider,
		now:      time.Now,
		state:    FeedState{Status: StatusChecking, Articles: []Article{}},
	}
}

// OnChange registers fn to receive every state transition. fn runs while the
// client lock is held so notifications arrive in the order they were applied.
func (c *Client) OnChange(fn func(FeedState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Client) State() FeedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Fetch queries the provider once and returns the resulting state. Errors
// never escape; they are folded into Status and ErrorMessage.
func (c *Client) Fetch(ctx context.Context) FeedState {
	c.mu.Lock()
	c.state.Status = StatusChecking
	c.state.ErrorMessage = ""
	c.state.Err = nil
	c.notifyLocked()
	c.mu.Unlock()

	start := time.Now()
	resp, err := c.provider.Everything(ctx)
	fetchedAt := c.now()

	var articles []Article
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrTransport, err)
	} else {
		articles = Admit(resp.Articles, fetchedAt)
		if len(articles) == 0 {
			err = ErrNoArticles
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.batch++
	if err != nil {
		c.state.Status = StatusError
		c.state.ErrorMessage = errorMessage(err)
		c.state.Err = err
		c.state.Articles = []Article{}

		outcome := metrics.OutcomeTransportError
		if errors.Is(err, ErrNoArticles) {
			outcome = metrics.OutcomeEmptyResult
		}
		metrics.FeedFetches.WithLabelValues(outcome).Inc()
		slog.Warn("Feed fetch failed", "outcome", outcome, "duration", time.Since(start), "error", err)
	} else {
		c.state.Status = StatusConnected
		c.state.ErrorMessage = ""
		c.state.Err = nil
		c.state.Articles = articles
		c.state.LastUpdated = &fetchedAt

		metrics.FeedFetches.WithLabelValues(metrics.OutcomeConnected).Inc()
		metrics.FeedArticles.Observe(float64(len(articles)))
		slog.Info("Feed fetched",
			"duration", time.Since(start),
			"received", len(resp.Articles),
			"admitted", len(articles))
	}

	c.notifyLocked()
	return c.state.clone()
}

func (c *Client) notifyLocked() {
	if c.onChange != nil {
		c.onChange(c.state.clone())
	}
}

func errorMessage(err error) string {
	if errors.Is(err, ErrNoArticles) {
		return ErrNoArticles.Error()
	}

	var providerErr *newsapi.ProviderError
	if errors.As(err, &providerErr) {
		return cmp.Or(providerErr.Message, genericErrorMessage)
	}

	return transportErrorMessage
}

// Admit applies the admission filter to a raw batch, assigns identities and
// marks the leading articles as trending. Malformed items are dropped
// silently, as are repeats of an id already admitted.
func Admit(raw []newsapi.Article, fetchedAt time.Time) []Article {
	articles := make([]Article, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, item := range raw {
		if !admissible(item) {
			continue
		}

		id := strings.TrimSpace(item.URL)
		if id == "" {
			id = fmt.Sprintf("news-%d-%d", len(articles), fetchedAt.UnixMilli())
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		articles = append(articles, Article{
			ID:             id,
			Title:          item.Title,
			Description:    item.Description,
			Content:        item.Content,
			URL:            item.URL,
			ImageURL:       item.URLToImage,
			SourceName:     item.SourceName(),
			Author:         item.Author,
			PublishedAt:    parsePublishedAt(item.PublishedAt),
			PublishedAtRaw: item.PublishedAt,
		})
	}

	for i := range articles {
		articles[i].Trending = i < TrendingCount
	}

	return articles
}

func admissible(item newsapi.Article) bool {
	title := strings.TrimSpace(item.Title)
	switch {
	case title == "", title == RemovedTitle:
		return false
	case strings.TrimSpace(item.URL) == "":
		return false
	case strings.TrimSpace(item.Description) == "":
		return false
	}
	return true
}

// parsePublishedAt returns the zero time for anything it cannot read; the
// query engine treats that as the oldest instant.
func parsePublishedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
