package newsapi

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultEndpoint = "https://newsapi.org/v2/everything"

	maxBodySize = 10 << 20
)

type Options struct {
	Endpoint   string
	APIKey     string
	UserAgent  string
	Timeout    time.Duration
	Profile    *Profile
	HTTPClient *http.Client
}

// Client issues the single fixed query described by its Profile.
type Client struct {
	endpoint   string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	profile    *Profile
	httpClient *http.Client
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	profile := opts.Profile
	if profile == nil {
		profile = DefaultProfile()
	}

	return &Client{
		endpoint:   cmp.Or(opts.Endpoint, DefaultEndpoint),
		apiKey:     opts.APIKey,
		userAgent:  opts.UserAgent,
		timeout:    cmp.Or(opts.Timeout, 30*time.Second),
		profile:    profile,
		httpClient: httpClient,
	}
}

// RawResponse is the provider reply as received.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ProviderError is returned when the provider answered but reported failure.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("provider error: HTTP %d: %s", e.StatusCode, e.Message)
}

func (c *Client) Profile() *Profile {
	return c.profile
}

// URL returns the full request URL including the credential.
func (c *Client) URL() string {
	values := c.profile.Values()
	values.Set("apiKey", c.apiKey)
	return c.endpoint + "?" + values.Encode()
}

// Do performs the request and returns the body untouched. Only transport
// failures are reported as errors.
func (c *Client) Do(ctx context.Context) (*RawResponse, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the credential.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Everything performs the request and decodes the provider payload.
func (c *Client) Everything(ctx context.Context) (*Response, error) {
	raw, err := c.Do(ctx)
	if err != nil {
		return nil, err
	}

	return Decode(raw)
}

// Decode turns a raw reply into a Response, or a *ProviderError when the
// provider reported failure.
func Decode(raw *RawResponse) (*Response, error) {
	var payload Response
	decodeErr := json.Unmarshal(raw.Body, &payload)

	if !raw.OK() || payload.Status == "error" {
		return nil, &ProviderError{
			StatusCode: raw.StatusCode,
			Code:       payload.Code,
			Message:    payload.Message,
		}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return &payload, nil
}
