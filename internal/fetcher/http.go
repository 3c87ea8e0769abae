// Package fetcher provides the shared best-effort HTTP GET helper used
// by every source adapter. Any transport error, timeout, or non-2xx
// status yields "no content" rather than an error: scraping targets are
// volatile and a failed fetch is an expected outcome, not a fault.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second

	// maxBodyBytes bounds memory per fetch; scraped pages beyond this
	// size carry no additional extractable signal.
	maxBodyBytes = 5 << 20
)

var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept-Language": "en-US,en;q=0.9",
}

// Options configures the fetcher.
type Options struct {
	Timeout time.Duration
	// HostRate is the per-host politeness limit in requests/second.
	// Zero disables limiting.
	HostRate float64
}

// Client issues single-attempt GET requests with browser-like headers.
type Client struct {
	client   *http.Client
	hostRate rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a fetcher Client with the given options.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	return &Client{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		hostRate: rate.Limit(opts.HostRate),
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiterFor returns the politeness limiter for the URL's host,
// creating it on first use. Returns nil when limiting is disabled.
func (c *Client) limiterFor(rawURL string) *rate.Limiter {
	if c.hostRate <= 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[u.Host]
	if !ok {
		lim = rate.NewLimiter(c.hostRate, 1)
		c.limiters[u.Host] = lim
	}
	return lim
}

// Fetch performs one GET and returns the body text. The second return
// value is false on any failure; no error is ever surfaced. Callers
// needing multiple attempts issue multiple calls.
func (c *Client) Fetch(ctx context.Context, rawURL string, extraHeaders map[string]string) (string, bool) {
	if lim := c.limiterFor(rawURL); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return "", false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		zap.L().Debug("fetch: bad url", zap.String("url", rawURL), zap.Error(err))
		return "", false
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Debug("fetch: request failed", zap.String("url", rawURL), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Debug("fetch: non-2xx status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		zap.L().Debug("fetch: read body failed", zap.String("url", rawURL), zap.Error(err))
		return "", false
	}

	return string(body), true
}
