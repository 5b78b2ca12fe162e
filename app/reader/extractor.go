package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultTimeout = 30 * time.Second

	maxPageBytes = 5 << 20
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrNotHTML          = errors.New("not an HTML page")
	ErrNoContent        = errors.New("no content extracted")
)

// Content is the readable part of an article page.
type Content struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

type Options struct {
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Extractor downloads article pages and reduces them to sanitized readable
// content.
type Extractor struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	policy    *bluemonday.Policy
}

func NewExtractor(opts Options) *Extractor {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Extractor{
		client:    client,
		userAgent: opts.UserAgent,
		timeout:   timeout,
		policy:    policy,
	}
}

func (e *Extractor) Extract(ctx context.Context, rawURL string) (Content, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return Content{}, fmt.Errorf("invalid article url %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return Content{}, fmt.Errorf("failed to create request: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return Content{}, fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Content{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return Content{}, fmt.Errorf("%w: %q", ErrNotHTML, mediaType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Content{}, fmt.Errorf("failed to read article: %w", err)
	}

	return e.Run(data, pageURL)
}

// Run extracts readable content from an already downloaded page. pageURL
// resolves relative links and may be nil.
func (e *Extractor) Run(data []byte, pageURL *url.URL) (Content, error) {
	if len(data) == 0 {
		return Content{}, fmt.Errorf("%w: empty page", ErrNoContent)
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return Content{}, fmt.Errorf("failed to extract content: %w", err)
	}

	var text strings.Builder
	if err := article.RenderText(&text); err != nil {
		return Content{}, fmt.Errorf("failed to render text: %w", err)
	}
	var html strings.Builder
	if err := article.RenderHTML(&html); err != nil {
		return Content{}, fmt.Errorf("failed to render html: %w", err)
	}

	content := Content{
		HTML: strings.TrimSpace(e.policy.Sanitize(html.String())),
		Text: strings.TrimSpace(text.String()),
	}
	if content.Text == "" {
		return Content{}, ErrNoContent
	}

	slog.Debug("Content extracted successfully",
		"text_length", len(content.Text),
		"html_length", len(content.HTML))

	return content, nil
}
