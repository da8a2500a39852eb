package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	DefaultBaseURL = "https://store.steampowered.com/api"
	DefaultTimeout = 10 * time.Second

	// SearchLimit is the number of items requested from storesearch.
	SearchLimit = 5
)

// Client talks to the public Steam storefront API. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// Simple rate limiter
	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMinInterval sets the minimum gap between two outgoing requests.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) { c.minInterval = d }
}

// NewClient creates a storefront client. An empty baseURL means DefaultBaseURL;
// a non-positive timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
		// storefront tolerates roughly 200 requests per 5 minutes
		minInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elapsed := time.Since(c.lastRequest); elapsed < c.minInterval {
		t := time.NewTimer(c.minInterval - elapsed)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// get performs a GET request and decodes the JSON response into result.
// Every error it returns matches ErrTimeout, ErrUnavailable or ErrDecode.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.wait(ctx); err != nil {
		return classify(err)
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if ctx.Err() != nil {
			return classify(ctx.Err())
		}
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
