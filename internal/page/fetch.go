package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrFetch marks failures of the HTTP backend. Callers can distinguish a page
// that could not be read from a page that produced a negative verdict.
var ErrFetch = errors.New("page fetch failed")

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 2 * 1024 * 1024
	defaultUserAgent    = "signal-worker/1.0"
)

// Fetcher retrieves a target document over HTTP and snapshots it. It sees
// the served HTML and Set-Cookie headers only; scripts are not executed, so
// localStorage is always empty.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithMaxBodyBytes caps how much of the response body is read.
func WithMaxBodyBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// NewFetcher builds a fetcher with an optional custom HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	f := &Fetcher{client: client, maxBodyBytes: defaultMaxBodyBytes, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch requests the target and returns a static snapshot of the response.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*Static, error) {
	url := NormalizeURL(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s: unexpected status code %d", ErrFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrFetch, url, err)
	}

	var cookies []Cookie
	for _, c := range resp.Cookies() {
		cookies = append(cookies, Cookie{Name: c.Name, Value: c.Value})
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return NewStatic(finalURL, string(body), cookies, nil), nil
}

// NormalizeURL adds an https scheme to bare hosts.
func NormalizeURL(target string) string {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return target
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}
