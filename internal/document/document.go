// Package document assembles the final markdown written to disk: fenced code
// blocks are detected and reformatted, and a metadata header is prepended.
package document

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sitemd/sitemd/internal/codeblock"
)

// reFence matches a well-formed fenced block only: opening fence with its
// info string, body, closing fence. Malformed fences (unclosed, or missing
// the trailing newline) never match and pass through verbatim.
var reFence = regexp.MustCompile("(?s)```([^\n]*)\n(.*?)\n```")

// Assembler rewrites generated markdown into its final on-disk form. It is
// a pure string transform and safe for concurrent use.
type Assembler struct {
	proc   *codeblock.Processor
	source string
	now    func() time.Time
}

// New returns an Assembler using proc for per-block work. source names the
// generator that produced the markdown and is recorded in the header.
func New(proc *codeblock.Processor, source string) *Assembler {
	return &Assembler{proc: proc, source: source, now: time.Now}
}

// Assemble runs every well-formed fenced code block through detection and
// reformatting, substitutes the results back, and prepends the metadata
// header plus a title and back-link for the source URL.
func (a *Assembler) Assemble(markdown, url string) string {
	body, blocks := a.rewriteBlocks(markdown, url)

	return a.header(url, blocks) + body
}

func (a *Assembler) rewriteBlocks(markdown, url string) (string, int) {
	matches := reFence.FindAllStringSubmatchIndex(markdown, -1)
	if len(matches) == 0 {
		return markdown, 0
	}

	var b strings.Builder

	b.Grow(len(markdown))

	last := 0

	for _, m := range matches {
		hint := strings.ToLower(strings.TrimSpace(markdown[m[2]:m[3]]))
		code := markdown[m[4]:m[5]]

		detected := a.proc.Detect(code, hint, url)

		formatted, lang := a.proc.Reformat(code, detected, url)

		// An explicit author tag survives whatever the detector thinks.
		if hint != "" && hint != codeblock.TagText {
			lang = hint
		}

		b.WriteString(markdown[last:m[0]])
		b.WriteString("```")
		b.WriteString(lang)
		b.WriteByte('\n')
		b.WriteString(formatted)
		b.WriteString("\n```")

		last = m[1]
	}

	b.WriteString(markdown[last:])

	return b.String(), len(matches)
}

func (a *Assembler) header(url string, blocks int) string {
	domain := Domain(url)

	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "url: %s\n", url)
	fmt.Fprintf(&b, "source: %s\n", a.source)
	fmt.Fprintf(&b, "date_processed: %s\n", a.now().Format(time.RFC3339))
	fmt.Fprintf(&b, "domain: %s\n", domain)
	b.WriteString("content_type: documentation\n")
	fmt.Fprintf(&b, "contains_code: %t\n", blocks > 0)

	if blocks > 0 {
		fmt.Fprintf(&b, "code_blocks_count: %d\n", blocks)
	}

	fmt.Fprintf(&b, "formatter_version: %s\n", FormatterVersion)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n\n", domain)
	fmt.Fprintf(&b, "> Original URL: [%s](%s)\n\n", url, url)

	return b.String()
}

// Domain extracts the host part of a URL without parsing it strictly; the
// pipeline also meets bare hosts and relative references from sitemaps.
func Domain(url string) string {
	s := url

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}

	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}

	return s
}
