// Package sitemap fetches and parses XML sitemaps.
package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Namespace is the sitemap protocol namespace. Documents with a different
// root namespace are rejected rather than half-parsed.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const fetchTimeout = 10 * time.Second

// Some documentation hosts refuse the default Go client string.
const userAgent = "Mozilla/5.0 (compatible; sitemd/1.0)"

type urlset struct {
	XMLName xml.Name   `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	Entries []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// Client fetches sitemaps over HTTP.
type Client struct {
	http *http.Client
}

// New returns a Client with a timeout suited to sitemap endpoints.
func New() *Client {
	return &Client{http: &http.Client{Timeout: fetchTimeout}}
}

// NewWithHTTPClient lets callers bring their own transport.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{http: hc}
}

// Fetch downloads the sitemap at url and returns the page URLs it lists, in
// document order.
func (c *Client) Fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sitemap request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sitemap %s: %w: %s", url, ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}

	return Parse(body)
}

// Parse extracts the page URLs from sitemap XML. Entries with a blank loc
// are dropped.
func Parse(data []byte) ([]string, error) {
	var set urlset

	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	urls := make([]string, 0, len(set.Entries))

	for _, entry := range set.Entries {
		if loc := strings.TrimSpace(entry.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}

	return urls, nil
}

// ErrUnexpectedStatus reports a non-200 response from the sitemap endpoint.
var ErrUnexpectedStatus = errors.New("unexpected status")
