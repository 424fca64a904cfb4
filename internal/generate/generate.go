// Package generate turns crawled HTML into markdown documents.
package generate

import "context"

// Generator produces a markdown rendition of one documentation page.
type Generator interface {
	// Name identifies the generator in document metadata.
	Name() string
	// Generate renders the page HTML as markdown.
	Generate(ctx context.Context, html, url string) (string, error)
}

// SnippetProvider supplies example code for a domain; the snippet catalog
// implements it.
type SnippetProvider interface {
	Context(domain string) string
}
