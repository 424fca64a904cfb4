package codeblock

import (
	"regexp"
	"strings"
)

// reScripting is the loose idiom test backing the documentation-domain prior:
// anything that looks like a scripting-language snippet on a python-heavy doc
// site is classified as python before the generic battery runs.
var reScripting = regexp.MustCompile(`import|def\s+\w+|class\s+\w+|async\s+def|await|with\s+|try:|except:`)

// langRule is one entry of the ordered detection battery. A rule fires when
// match hits and the optional and pattern hits too; refined upgrades the tag
// when its pattern is also present.
type langRule struct {
	tag        string
	match      *regexp.Regexp
	and        *regexp.Regexp
	refined    *regexp.Regexp
	refinedTag string
}

// battery is evaluated strictly in order and the first firing rule wins.
// Patterns overlap on purpose (a SQL WITH clause would satisfy the python
// rule, JSON satisfies nothing later), so order is part of the contract.
var battery = []langRule{
	{
		tag:   TagPython,
		match: regexp.MustCompile(`(?i)import\s+\w+|from\s+\w+\s+import|def\s+\w+\s*\(|class\s+\w+|async\s+def|@\w+|await\s+|with\s+|if\s+__name__\s*==\s*['"]__main__['"]`),
	},
	{
		tag:        TagJavaScript,
		match:      regexp.MustCompile(`function\s+\w+\s*\(|\w+\s*=>\s*[{(]|const\s+\w+\s*=|let\s+\w+\s*=|var\s+\w+\s*=|import\s+.*from\s+['"]|export\s+|class\s+\w+\s*\{\s*constructor|new\s+\w+\(`),
		refined:    regexp.MustCompile(`:\s*\w+(\[\])?|interface\s+\w+|<\w+>|implements\s+|namespace\s+`),
		refinedTag: TagTypeScript,
	},
	{
		tag:   TagHTML,
		match: regexp.MustCompile(`(?i)<(!DOCTYPE|html|head|body|div|span|p|a|img|ul|ol|li|table|form|input)\b|</\w+>`),
	},
	{
		tag:   TagSQL,
		match: regexp.MustCompile(`(?i)SELECT\s+.+\s+FROM|INSERT\s+INTO|UPDATE\s+.+\s+SET|DELETE\s+FROM|CREATE\s+TABLE|ALTER\s+TABLE|DROP\s+TABLE`),
	},
	{
		// Objects only: a top-level JSON array does not satisfy this rule
		// and falls through to text.
		tag:   TagJSON,
		match: regexp.MustCompile(`^\s*\{\s*"\w+"\s*:\s*`),
		and:   regexp.MustCompile(`}\s*$`),
	},
	{
		tag:   TagJava,
		match: regexp.MustCompile(`public\s+(class|interface)|private\s+\w+|protected\s+\w+|@Override|import\s+java\.|System\.out\.print`),
	},
	{
		tag:   TagCPP,
		match: regexp.MustCompile(`#include\s+<\w+(\.\w+)?>|std::|int\s+main\s*\(\s*(?:void|int\s+argc)|void\s+\w+\s*\(\s*\w+`),
	},
	{
		tag:   TagGo,
		match: regexp.MustCompile(`package\s+main|import\s+\(\s*"|func\s+\w+\s*\(|go\s+func|make\(\w+\)`),
	},
	{
		tag:   TagRust,
		match: regexp.MustCompile(`fn\s+\w+|let\s+mut\s+|struct\s+\w+|impl\s+|use\s+\w+::|pub\s+fn`),
	},
	{
		tag:   TagBash,
		match: regexp.MustCompile(`#!/bin/(ba)?sh|export\s+\w+=|\$\(\w+\)|if\s+\[\s+|\[\s+.+\s+\]`),
	},
	{
		tag:   TagYAML,
		match: regexp.MustCompile(`(?m)^\s*\w+:\s*\n\s+-\s+`),
	},
}

// Detect infers the language tag of a code block. Precedence is fixed: an
// explicit hint other than "text" wins, then the documentation-domain prior,
// then the ordered battery, then the text fallback.
func (p *Processor) Detect(text, hint, url string) string {
	if h := strings.ToLower(strings.TrimSpace(hint)); h != "" && h != TagText {
		return h
	}

	if containsAny(url, p.docDomains) && reScripting.MatchString(text) {
		return TagPython
	}

	for _, rule := range battery {
		if !rule.match.MatchString(text) {
			continue
		}

		if rule.and != nil && !rule.and.MatchString(text) {
			continue
		}

		if rule.refined != nil && rule.refined.MatchString(text) {
			return rule.refinedTag
		}

		return rule.tag
	}

	return TagText
}
