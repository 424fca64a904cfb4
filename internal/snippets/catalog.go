package snippets

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/gobwas/glob"

	"github.com/sitemd/sitemd/internal/document"
)

// maxContextDocs caps how many catalog documents contribute example
// snippets to a generation prompt.
const maxContextDocs = 3

// fallbackExample keeps prompts concrete when the catalog has nothing to
// offer for a domain yet, which is always the case on the first page.
const fallbackExample = "Example Crawl4AI usage:\n```python\n" +
	"from crawl4ai import AsyncWebCrawler, CrawlerRunConfig, DefaultMarkdownGenerator\n\n" +
	"async def main():\n" +
	"    async with AsyncWebCrawler() as crawler:\n" +
	"        config = CrawlerRunConfig(\n" +
	"            markdown_generator=DefaultMarkdownGenerator()\n" +
	"        )\n" +
	"        result = await crawler.arun(url=\"https://example.com\", config=config)\n" +
	"        if result.success:\n" +
	"            print(result.markdown.fit_markdown)\n\n" +
	"if __name__ == \"__main__\":\n" +
	"    import asyncio\n" +
	"    asyncio.run(main())\n" +
	"```"

// Doc is one generated markdown document admitted to the catalog.
type Doc struct {
	Path   string
	Title  string
	Meta   document.Metadata
	Blocks Blocks
}

// Catalog indexes generated documents by domain so later conversions can
// quote real code from pages of the same site. The zero value is an empty
// catalog whose context falls back to the canned example.
type Catalog struct {
	docs []Doc
}

// Load scans fsys for markdown files whose base name matches the glob
// pattern and parses each into the catalog. Files without a metadata header
// or without code blocks still load; they simply contribute no snippets.
func Load(fsys fs.FS, pattern string) (*Catalog, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	var docs []Doc

	err = fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() || !g.Match(path.Base(p)) {
			return nil
		}

		doc, derr := loadDoc(fsys, p)
		if derr != nil {
			return fmt.Errorf("load %s: %w", p, derr)
		}

		docs = append(docs, doc)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	return &Catalog{docs: docs}, nil
}

// Docs returns the catalog contents in path order.
func (c *Catalog) Docs() []Doc {
	return c.docs
}

// Context renders up to three example sections drawn from documents of the
// given domain, quoting each document's first python snippet. An empty
// domain admits every document. When nothing matches, a canned crawl
// example is returned so the prompt never goes out without code.
func (c *Catalog) Context(domain string) string {
	var sections []string

	for _, doc := range c.docs {
		if domain != "" && doc.Meta.Domain != domain {
			continue
		}

		block := doc.Blocks.First("python")
		if block == nil {
			continue
		}

		sections = append(sections, fmt.Sprintf("Example from %s:\n```python\n%s\n```",
			doc.Title, bytes.TrimRight(block.Code, "\n")))

		if len(sections) == maxContextDocs {
			break
		}
	}

	if len(sections) == 0 {
		return fallbackExample
	}

	return strings.Join(sections, "\n\n")
}

func loadDoc(fsys fs.FS, p string) (Doc, error) {
	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		return Doc{}, err
	}

	doc := Doc{Path: p}

	body, err := frontmatter.Parse(bytes.NewReader(raw), &doc.Meta)
	if err != nil {
		// A file with a damaged header is still worth its code blocks.
		body = raw
	}

	doc.Title = firstHeading(body)
	if doc.Title == "" {
		doc.Title = path.Base(p)
	}

	blocks, err := Extract(body)
	if err != nil {
		return Doc{}, err
	}

	doc.Blocks = blocks

	return doc, nil
}

func firstHeading(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		if after, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(after)
		}
	}

	return ""
}
