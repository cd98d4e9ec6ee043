// Package fetch retrieves font binaries over the network.  It is a thin
// I/O boundary: no retries, no caching, no parsing.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single font download.
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves the bytes behind a font URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Func adapts a plain function to the Fetcher interface.
type Func func(ctx context.Context, url string) ([]byte, error)

func (f Func) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// HTTPFetcher downloads font data with a shared HTTP client.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTP creates an HTTPFetcher; a non-positive timeout falls back to
// DefaultTimeout.
func NewHTTP(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the resource; any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build font request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch font from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("font fetch from %s returned status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read font body from %s: %w", url, err)
	}
	return data, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
