// Package codeblock detects the language of fenced code blocks and reformats
// their contents. Both operations are total: they never fail and never panic,
// degrading to the unmodified input instead.
package codeblock

import (
	"regexp"
	"strings"
)

// Language tags produced by [Processor.Detect]. TagText is the fallback when
// no rule matches.
const (
	TagPython     = "python"
	TagJavaScript = "javascript"
	TagTypeScript = "typescript"
	TagHTML       = "html"
	TagSQL        = "sql"
	TagJSON       = "json"
	TagJava       = "java"
	TagCPP        = "cpp"
	TagGo         = "go"
	TagRust       = "rust"
	TagBash       = "bash"
	TagYAML       = "yaml"
	TagText       = "text"
)

// ImportFix describes an import statement to synthesize when a known symbol
// appears in a block without its import line.
type ImportFix struct {
	// Symbol triggers the fix when present anywhere in the block.
	Symbol string `yaml:"symbol"`
	// Guard suppresses the fix when already present, keeping the fix idempotent.
	Guard string `yaml:"guard"`
	// Line is the import statement to insert, without a trailing newline.
	Line string `yaml:"line"`
}

// Rules carries the configurable parts of detection and reformatting.
// Zero-valued fields fall back to the defaults from [DefaultRules].
type Rules struct {
	// DocDomains bias detection toward python when the source URL contains
	// one of them and the block shows generic scripting idioms.
	DocDomains []string `yaml:"doc_domains"`
	// CrawlDomains gate the call-site and import fixes below to documents
	// scraped from crawler documentation.
	CrawlDomains []string `yaml:"crawl_domains"`
	// CallSites are identifiers whose opening parenthesis must stay glued
	// to the name ("AsyncWebCrawler (" becomes "AsyncWebCrawler(").
	CallSites []string `yaml:"call_sites"`
	// ImportFixes are applied to python blocks from crawler documentation.
	ImportFixes []ImportFix `yaml:"import_fixes"`
}

// DefaultRules returns the rule set for the crawler-documentation sites the
// pipeline was built around.
func DefaultRules() Rules {
	return Rules{
		DocDomains:   []string{"crawl4ai.com", "pydantic.dev", "github.io/langgraph"},
		CrawlDomains: []string{"crawl4ai"},
		CallSites:    []string{"CrawlerRunConfig", "AsyncWebCrawler", "DefaultMarkdownGenerator"},
		ImportFixes: []ImportFix{
			{
				Symbol: "AsyncWebCrawler",
				Guard:  "from crawl4ai import AsyncWebCrawler",
				Line:   "from crawl4ai import AsyncWebCrawler, CrawlerRunConfig",
			},
		},
	}
}

// Processor applies language detection and reformatting to individual code
// blocks. It holds only immutable compiled rules and is safe for concurrent
// use.
type Processor struct {
	docDomains   []string
	crawlDomains []string
	callSites    []*regexp.Regexp
	importFixes  []ImportFix
}

// New compiles rules into a Processor. Empty rule fields take their defaults.
func New(rules Rules) *Processor {
	defaults := DefaultRules()

	if rules.DocDomains == nil {
		rules.DocDomains = defaults.DocDomains
	}

	if rules.CrawlDomains == nil {
		rules.CrawlDomains = defaults.CrawlDomains
	}

	if rules.CallSites == nil {
		rules.CallSites = defaults.CallSites
	}

	if rules.ImportFixes == nil {
		rules.ImportFixes = defaults.ImportFixes
	}

	proc := &Processor{
		docDomains:   rules.DocDomains,
		crawlDomains: rules.CrawlDomains,
		importFixes:  rules.ImportFixes,
	}

	for _, name := range rules.CallSites {
		proc.callSites = append(proc.callSites, regexp.MustCompile(`\b(`+regexp.QuoteMeta(name)+`)\s*\(`))
	}

	return proc
}

func (p *Processor) crawlURL(url string) bool {
	return containsAny(url, p.crawlDomains)
}

func containsAny(s string, subs []string) bool {
	if s == "" {
		return false
	}

	s = strings.ToLower(s)

	for _, sub := range subs {
		if sub != "" && strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}

	return false
}
