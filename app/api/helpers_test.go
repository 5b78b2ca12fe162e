package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/pharma-pulse/app/cache"
	"github.com/lysyi3m/pharma-pulse/app/feed"
	"github.com/lysyi3m/pharma-pulse/app/news"
	"github.com/lysyi3m/pharma-pulse/app/newsapi"
	"github.com/lysyi3m/pharma-pulse/app/reader"
	"github.com/lysyi3m/pharma-pulse/app/tasks"
)

type fakeProxy struct {
	mu    sync.Mutex
	raw   *newsapi.RawResponse
	err   error
	calls int
}

func (f *fakeProxy) URL() string {
	return "https://newsapi.test/v2/everything?q=pharma&apiKey=secret"
}

func (f *fakeProxy) Do(ctx context.Context) (*newsapi.RawResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.raw, f.err
}

func (f *fakeProxy) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type stubProvider struct {
	resp *newsapi.Response
	err  error
}

func (p stubProvider) Everything(ctx context.Context) (*newsapi.Response, error) {
	return p.resp, p.err
}

// syncScheduler runs every task inline, so handlers observe their effect
// before responding.
type syncScheduler struct {
	err error
}

func (s *syncScheduler) Start() {}
func (s *syncScheduler) Stop()  {}

func (s *syncScheduler) EnqueueTask(task tasks.TaskInterface) error {
	if s.err != nil {
		return s.err
	}
	task.Start()
	if err := task.Execute(context.Background()); err != nil && !task.CanRetry() {
		task.OnFailure(err)
	}
	return nil
}

type stubExtractor struct {
	content reader.Content
	err     error
}

func (e stubExtractor) Extract(ctx context.Context, url string) (reader.Content, error) {
	return e.content, e.err
}

func providerBatch(n int) *newsapi.Response {
	articles := make([]newsapi.Article, n)
	now := time.Now().UTC()
	for i := range articles {
		source := "FiercePharma"
		if i%2 == 1 {
			source = "STAT"
		}
		articles[i] = newsapi.Article{
			Source:      &newsapi.Source{Name: source},
			Title:       fmt.Sprintf("Story %d", i),
			Description: fmt.Sprintf("Description %d", i),
			URL:         fmt.Sprintf("https://example.com/story/%d", i),
			PublishedAt: now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
		}
	}
	if n > 3 {
		articles[3].Description = "Vaccine rollout expands"
	}
	return &newsapi.Response{Status: "ok", TotalResults: n, Articles: articles}
}

type testEnv struct {
	router    *gin.Engine
	proxy     *fakeProxy
	registry  *news.Registry
	scheduler *syncScheduler
	contents  *reader.Store
	cache     *cache.Memory
}

type envOption func(*HandlerOptions)

func newTestEnv(t *testing.T, provider news.Provider, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		proxy: &fakeProxy{raw: &newsapi.RawResponse{
			StatusCode:  http.StatusOK,
			ContentType: "application/json; charset=utf-8",
			Body:        []byte(`{"status":"ok","totalResults":0,"articles":[]}`),
		}},
		registry:  news.NewRegistry(news.RegistryOptions{Provider: provider}),
		scheduler: &syncScheduler{},
		contents:  reader.NewStore(nil),
		cache:     cache.NewMemory(0, time.Minute),
	}
	t.Cleanup(env.registry.Close)

	options := HandlerOptions{
		Proxy:     env.proxy,
		Cache:     env.cache,
		CacheTTL:  time.Minute,
		Registry:  env.registry,
		Scheduler: env.scheduler,
		Extractor: stubExtractor{content: reader.Content{Text: "Full text", HTML: "<p>Full text</p>"}},
		Contents:  env.contents,
		Generator: feed.NewGenerator("test"),
		BaseURL:   "https://news.example.com",
		Version:   "test",
	}
	for _, opt := range opts {
		opt(&options)
	}

	env.router = NewServer(NewHandler(options), false)
	gin.SetMode(gin.TestMode)
	return env
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var payload io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		payload = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()

	w := e.do(http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		ID string `json:"id"`
	}
	decode(t, w, &res)
	return res.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}
