// Package store persists crawled pages and generated markdown on disk.
//
// Crawled pages land in <html dir>/<domain>_sitemap/, one CSV per page with
// url and html_content columns. Generated markdown lands flat in the
// markdown dir, one file per page named after its URL.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Page is one crawled page.
type Page struct {
	URL  string
	HTML string
}

// Store lays out the on-disk tree for a crawl-and-convert run.
type Store struct {
	HTMLDir     string
	MarkdownDir string
}

// New returns a Store rooted at the two directories.
func New(htmlDir, markdownDir string) *Store {
	return &Store{HTMLDir: htmlDir, MarkdownDir: markdownDir}
}

// PageDir returns the directory crawled pages of a domain are stored in.
func (s *Store) PageDir(domain string) string {
	return filepath.Join(s.HTMLDir, domain+"_sitemap")
}

// SavePage writes one crawled page and returns the path written.
func (s *Store) SavePage(domain string, page Page) (string, error) {
	dir := s.PageDir(domain)

	if err := os.MkdirAll(dir, dirMode); err != nil {
		return "", fmt.Errorf("create page dir: %w", err)
	}

	path := filepath.Join(dir, SanitizeName(page.URL)+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create page file: %w", err)
	}

	w := csv.NewWriter(f)

	err = w.WriteAll([][]string{
		{"url", "html_content"},
		{page.URL, page.HTML},
	})
	if err != nil {
		f.Close()

		return "", fmt.Errorf("write page %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close page file: %w", err)
	}

	return path, nil
}

// LoadPage reads back a page written by [Store.SavePage].
func (s *Store) LoadPage(path string) (Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return Page{}, fmt.Errorf("open page file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return Page{}, fmt.Errorf("read page %s: %w", path, err)
	}

	if len(records) < 2 || records[0][0] != "url" || records[0][1] != "html_content" {
		return Page{}, fmt.Errorf("read page %s: %w", path, ErrBadPageFile)
	}

	return Page{URL: records[1][0], HTML: records[1][1]}, nil
}

// ListPages returns the page files stored for a domain, in lexical order.
func (s *Store) ListPages(domain string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.PageDir(domain), "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	return paths, nil
}

// MarkdownPath returns where the generated markdown for url lives.
func (s *Store) MarkdownPath(url string) string {
	return filepath.Join(s.MarkdownDir, SanitizeName(url)+".md")
}

// MarkdownExists reports whether url has already been converted.
func (s *Store) MarkdownExists(url string) bool {
	_, err := os.Stat(s.MarkdownPath(url))

	return err == nil
}

// SaveMarkdown writes the generated document for url and returns the path.
func (s *Store) SaveMarkdown(url, content string) (string, error) {
	if err := os.MkdirAll(s.MarkdownDir, dirMode); err != nil {
		return "", fmt.Errorf("create markdown dir: %w", err)
	}

	path := s.MarkdownPath(url)

	if err := os.WriteFile(path, []byte(content), fileMode); err != nil {
		return "", fmt.Errorf("write markdown %s: %w", path, err)
	}

	return path, nil
}

// MarkdownFS exposes the markdown directory for catalog scans. The boolean
// is false while nothing has been generated yet.
func (s *Store) MarkdownFS() (fs.FS, bool) {
	if _, err := os.Stat(s.MarkdownDir); err != nil {
		return nil, false
	}

	return os.DirFS(s.MarkdownDir), true
}

// SanitizeName turns a URL into a flat file name that is safe on every
// filesystem the pipeline runs on.
func SanitizeName(url string) string {
	s := strings.TrimPrefix(url, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.Trim(s, "/")

	var b strings.Builder

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	if b.Len() == 0 {
		return "index"
	}

	return b.String()
}

// ErrBadPageFile reports a CSV that does not look like a stored page.
var ErrBadPageFile = errors.New("malformed page file")
