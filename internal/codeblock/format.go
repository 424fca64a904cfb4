package codeblock

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"
)

// Blocks below this length are returned untouched: too short to re-indent
// safely.
const minFormatLen = 5

// fix is a guarded regex substitution applied to a single line's content.
// The guards keep a fix from firing inside identifiers that merely start
// with a keyword ("return1" is fixed, "returned" is left alone).
type fix struct {
	re     *regexp.Regexp
	repl   string
	when   *regexp.Regexp // line must also match for the fix to apply
	unless *regexp.Regexp // line must not match
}

func applyFixes(content string, fixes []fix) string {
	for _, f := range fixes {
		if f.when != nil && !f.when.MatchString(content) {
			continue
		}

		if f.unless != nil && f.unless.MatchString(content) {
			continue
		}

		content = f.re.ReplaceAllString(content, f.repl)
	}

	return content
}

// pythonKeywordFixes restore the space an AI-generated block tends to lose
// between a statement keyword and the following token. Each rule anchors at
// the start of the line's content or carries a context narrow enough that it
// cannot split an ordinary identifier.
var pythonKeywordFixes = []fix{
	{re: regexp.MustCompile(`^import([A-Za-z_][\w.]*(?:\s*,\s*[\w.]+)*)\s*$`), repl: "import $1"},
	{re: regexp.MustCompile(`^from([A-Za-z_][\w.]*)\s+import\b`), repl: "from $1 import"},
	{re: regexp.MustCompile(`^from\s+([\w.]+)\s+import([A-Za-z_]\w*)`), repl: "from $1 import $2"},
	{re: regexp.MustCompile(`^def([A-Za-z_]\w*)\s*\(`), repl: "def $1("},
	{re: regexp.MustCompile(`^class([A-Z]\w*)`), repl: "class $1"},
	{re: regexp.MustCompile(`^if([A-Za-z_]\w*)`), repl: "if $1", when: regexp.MustCompile(`:`)},
	{re: regexp.MustCompile(`^elif([A-Za-z_]\w*)`), repl: "elif $1", when: regexp.MustCompile(`:`)},
	{re: regexp.MustCompile(`^while([A-Za-z_]\w*)`), repl: "while $1", when: regexp.MustCompile(`:`)},
	{re: regexp.MustCompile(`^for([A-Za-z_]\w*)`), repl: "for $1", when: regexp.MustCompile(`\bin\b`)},
	{re: regexp.MustCompile(`^with([A-Za-z_]\w*)`), repl: "with $1", when: regexp.MustCompile(`:`)},
	{re: regexp.MustCompile(`^return([0-9A-Za-z]\w*)`), repl: "return $1", unless: regexp.MustCompile(`^return(?:s|ed|ing)\b`)},
	{re: regexp.MustCompile(`^except([A-Z]\w*)`), repl: "except $1"},
	{re: regexp.MustCompile(`^async(def|for|with)\b`), repl: "async $1"},
	{re: regexp.MustCompile(`^await([A-Za-z_]\w*)`), repl: "await $1", unless: regexp.MustCompile(`^await(?:s|ed|ing)\b`)},
	{re: regexp.MustCompile(`\bawait([A-Za-z_]\w*\.\w+)`), repl: "await $1", unless: regexp.MustCompile(`\bawait(?:s|ed|ing)\b`)},
	{re: regexp.MustCompile(`\)as([A-Za-z_]\w*)`), repl: ") as $1"},
	{re: regexp.MustCompile(`\bin(range|enumerate|zip|sorted|reversed|len|list|open)\s*\(`), repl: "in $1("},
}

var scriptKeywordFixes = []fix{
	{re: regexp.MustCompile(`^function([A-Za-z_$]\w*)\s*\(`), repl: "function $1("},
	{re: regexp.MustCompile(`^const([A-Za-z_$]\w*)`), repl: "const $1", when: regexp.MustCompile(`=`), unless: regexp.MustCompile(`^constructor\b`)},
	{re: regexp.MustCompile(`^let([A-Za-z_$]\w*)`), repl: "let $1", when: regexp.MustCompile(`=`), unless: regexp.MustCompile(`^let(?:ter|s)\b`)},
	{re: regexp.MustCompile(`^var([A-Za-z_$]\w*)`), repl: "var $1", when: regexp.MustCompile(`=`), unless: regexp.MustCompile(`^var(?:iable|iant|ious|s)\b`)},
	{re: regexp.MustCompile(`^if([A-Za-z_$]\w*)`), repl: "if $1", when: regexp.MustCompile(`[({]`)},
	{re: regexp.MustCompile(`^else(if)\b`), repl: "else $1"},
	{re: regexp.MustCompile(`^else\{`), repl: "else {"},
	{re: regexp.MustCompile(`^for(let|const|var|await)\b`), repl: "for $1"},
	{re: regexp.MustCompile(`^while([A-Za-z_$]\w*)`), repl: "while $1", when: regexp.MustCompile(`\(`)},
	{re: regexp.MustCompile(`^switch([A-Za-z_$]\w*)`), repl: "switch $1", when: regexp.MustCompile(`\(`)},
	{re: regexp.MustCompile(`^return([0-9A-Za-z$]\w*)`), repl: "return $1", unless: regexp.MustCompile(`^return(?:s|ed|ing)\b`)},
}

// Operator fixes collapse the whitespace around an operator to exactly one
// space on each side, so reapplying them is a no-op. The character classes
// on both sides keep compound and two-character operators (==, +=, =>, **,
// //, ->) out of reach.
var pythonOperatorFixes = []fix{
	{re: regexp.MustCompile(`([^=!<>+\-*/%&|^:~@\s])[ \t]*=[ \t]*([^=>\s])`), repl: "$1 = $2"},
	{re: regexp.MustCompile(`([^+(,\s])[ \t]*\+[ \t]*([^+=\s])`), repl: "$1 + $2"},
	{re: regexp.MustCompile(`([^\-(,\s])[ \t]*-[ \t]*([^\->=\s])`), repl: "$1 - $2"},
	{re: regexp.MustCompile(`([^*(,\s])[ \t]*\*[ \t]*([^*=\s])`), repl: "$1 * $2"},
	{re: regexp.MustCompile(`([^/\s])[ \t]*/[ \t]*([^/=\s])`), repl: "$1 / $2", unless: regexp.MustCompile(`://`)},
}

var scriptOperatorFixes = []fix{
	{re: regexp.MustCompile(`([^=!<>+\-*/%&|^:~@\s])[ \t]*=[ \t]*([^=>\s])`), repl: "$1 = $2"},
	{re: regexp.MustCompile(`([^+(,\s])[ \t]*\+[ \t]*([^+=\s])`), repl: "$1 + $2"},
	{re: regexp.MustCompile(`([^\-(,\s])[ \t]*-[ \t]*([^\->=\s])`), repl: "$1 - $2"},
}

// Reformat cleans up a code block's text: boundary blank lines are dropped,
// the common indentation is re-based to zero, and per-language token fixes
// are applied. It never fails; any internal error returns the input as-is
// so one bad block cannot abort document assembly.
func (p *Processor) Reformat(text, language, url string) (code, lang string) {
	code, lang = text, language

	defer func() {
		if recover() != nil {
			code, lang = text, language
		}
	}()

	if len(text) < minFormatLen {
		return code, lang
	}

	lines := trimBlankEdges(splitLines(text))
	if len(lines) == 0 {
		return code, lang
	}

	indent := commonIndent(lines)

	switch {
	case language == TagPython:
		return p.formatPython(lines, indent, url), TagPython
	case isScriptFamily(language):
		return formatLines(lines, indent, scriptKeywordFixes, scriptOperatorFixes), language
	case language == TagJSON:
		if pretty, ok := formatJSON(text); ok {
			return pretty, TagJSON
		}

		return reindent(lines, indent), language
	default:
		// YAML and every unrecognized language keep their tokens; only the
		// indentation is re-based.
		return reindent(lines, indent), language
	}
}

func isScriptFamily(language string) bool {
	switch language {
	case TagJavaScript, TagTypeScript, "jsx", "tsx":
		return true
	}

	return false
}

func (p *Processor) formatPython(lines []string, minIndent int, url string) string {
	crawl := p.crawlURL(url)

	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")

			continue
		}

		indent, content := splitIndent(line)

		content = applyFixes(content, pythonKeywordFixes)

		if crawl {
			for _, site := range p.callSites {
				content = site.ReplaceAllString(content, "$1(")
			}
		}

		content = applyFixes(content, pythonOperatorFixes)

		out = append(out, relIndent(indent, minIndent)+content)
	}

	joined := strings.Join(out, "\n")

	if crawl {
		joined = p.insertImports(joined)
	}

	return joined
}

func formatLines(lines []string, minIndent int, keywords, operators []fix) string {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")

			continue
		}

		indent, content := splitIndent(line)

		content = applyFixes(content, keywords)
		content = applyFixes(content, operators)

		out = append(out, relIndent(indent, minIndent)+content)
	}

	return strings.Join(out, "\n")
}

var reImportLine = regexp.MustCompile(`(?m)^(import|from)\b`)

// insertImports synthesizes missing import lines for known symbols, placing
// each one before the first existing import, or at the very top when the
// block has none.
func (p *Processor) insertImports(code string) string {
	for _, imp := range p.importFixes {
		if !strings.Contains(code, imp.Symbol) || strings.Contains(code, imp.Guard) {
			continue
		}

		if loc := reImportLine.FindStringIndex(code); loc != nil {
			code = code[:loc[0]] + imp.Line + "\n" + code[loc[0]:]
		} else {
			code = imp.Line + "\n" + code
		}
	}

	return code
}

func formatJSON(text string) (string, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any

	if err := dec.Decode(&value); err != nil {
		return "", false
	}

	// json.Decoder stops after the first value; trailing garbage means the
	// block is not a single JSON document.
	if _, err := dec.Token(); err != io.EOF {
		return "", false
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(value); err != nil {
		return "", false
	}

	return strings.TrimSuffix(buf.String(), "\n"), true
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

func trimBlankEdges(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

func splitIndent(line string) (int, string) {
	content := strings.TrimLeft(line, " \t")

	return len(line) - len(content), content
}

func relIndent(indent, minIndent int) string {
	if indent > minIndent {
		return strings.Repeat(" ", indent-minIndent)
	}

	return ""
}

func commonIndent(lines []string) int {
	lowest := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent, _ := splitIndent(line)
		if lowest < 0 || indent < lowest {
			lowest = indent
		}
	}

	if lowest < 0 {
		return 0
	}

	return lowest
}

func reindent(lines []string, minIndent int) string {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")

			continue
		}

		indent, content := splitIndent(line)
		out = append(out, relIndent(indent, minIndent)+content)
	}

	return strings.Join(out, "\n")
}
