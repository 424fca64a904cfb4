package generate

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// SourceStatic is the metadata source tag for locally converted documents.
const SourceStatic = "static"

// Static converts HTML to markdown without a model. It keeps the pipeline
// usable offline and without an API key, at the cost of rougher output.
type Static struct {
	conv *md.Converter
}

// NewStatic builds the local generator.
func NewStatic() *Static {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())

	return &Static{conv: conv}
}

// Name implements [Generator].
func (s *Static) Name() string {
	return SourceStatic
}

// Generate implements [Generator].
func (s *Static) Generate(_ context.Context, html, _ string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, nav, header, footer").Remove()

	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}

	markdown := strings.TrimSpace(s.conv.Convert(sel))

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		markdown = "## " + title + "\n\n" + markdown
	}

	return markdown + "\n", nil
}
