// Package fetch downloads page HTML for later conversion.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	fetchTimeout = 15 * time.Second

	// maxBodyBytes bounds how much of a page is kept. Documentation pages
	// sit well under this; anything larger is truncated rather than
	// ballooning the local store.
	maxBodyBytes = 4 << 20
)

const userAgent = "Mozilla/5.0 (compatible; sitemd/1.0)"

// Fetcher downloads pages over HTTP.
type Fetcher struct {
	http    *http.Client
	maxBody int64
}

// New returns a Fetcher with a timeout suited to documentation pages.
func New() *Fetcher {
	return &Fetcher{http: &http.Client{Timeout: fetchTimeout}, maxBody: maxBodyBytes}
}

// NewWithHTTPClient lets callers bring their own transport.
func NewWithHTTPClient(hc *http.Client) *Fetcher {
	return &Fetcher{http: hc, maxBody: maxBodyBytes}
}

// Fetch downloads url and returns its HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page %s: %w: %s", url, ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	return string(body), nil
}

// ErrUnexpectedStatus reports a non-200 response for a page.
var ErrUnexpectedStatus = errors.New("unexpected status")
