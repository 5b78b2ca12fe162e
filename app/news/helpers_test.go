package news

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lysyi3m/pharma-pulse/app/newsapi"
)

var testNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type fakeResult struct {
	resp *newsapi.Response
	err  error
}

// fakeProvider replays results in order and repeats the last one.
type fakeProvider struct {
	mu      sync.Mutex
	results []fakeResult
	calls   int
}

func (f *fakeProvider) Everything(ctx context.Context) (*newsapi.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	return r.resp, r.err
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func okResponse(articles ...newsapi.Article) fakeResult {
	return fakeResult{resp: &newsapi.Response{Status: "ok", TotalResults: len(articles), Articles: articles}}
}

func rawArticle(i int, source string, publishedAt time.Time) newsapi.Article {
	return newsapi.Article{
		Source:      &newsapi.Source{Name: source},
		Title:       fmt.Sprintf("Article %d", i),
		Description: fmt.Sprintf("Description %d", i),
		Content:     fmt.Sprintf("Content %d", i),
		URL:         fmt.Sprintf("https://example.com/articles/%d", i),
		PublishedAt: publishedAt.Format(time.RFC3339),
	}
}

func rawBatch(n int) []newsapi.Article {
	batch := make([]newsapi.Article, n)
	for i := range batch {
		batch[i] = rawArticle(i, "FiercePharma", testNow.Add(-time.Duration(i)*time.Hour))
	}
	return batch
}

func article(id, title, source string, publishedAt time.Time) Article {
	return Article{
		ID:          id,
		Title:       title,
		Description: "Description of " + title,
		URL:         "https://example.com/" + id,
		SourceName:  source,
		PublishedAt: publishedAt,
	}
}

func ids(articles []Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func strPtr(s string) *string { return &s }
