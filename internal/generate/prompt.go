package generate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// promptInstructions is the conversion brief sent with every page. The code
// block rules matter: pages whose snippets arrive broken here are exactly
// the ones the block reformatter has to repair later.
const promptInstructions = `Focus on preserving the main textual content, headings, lists, code blocks, and tables.
Ignore navigational elements unless they contain significant text.
Ensure the Markdown is clean and readable.

IMPORTANT - For code blocks, carefully follow these specific rules:
1. Always use triple backticks with accurate language identifiers (` + "```python, ```javascript" + `, etc.)
2. Preserve EXACT indentation and spacing in code blocks - this is critical for correct execution
3. Keep all imports and class/function definitions intact
4. Pay special attention to Python code, preserving docstrings and comments
5. For Python code, ensure proper spacing after keywords (def, class, import, etc.)
6. NEVER modify the logic or functionality of code`

// BuildPrompt renders the conversion prompt for one page. snippetContext
// carries example code for the page's site and may be empty. HTML beyond
// charLimit bytes is cut off, at a rune boundary, to keep requests inside
// the model's context window.
func BuildPrompt(html, url, snippetContext string, charLimit int) string {
	if charLimit > 0 && len(html) > charLimit {
		cut := charLimit
		for cut > 0 && !utf8.RuneStart(html[cut]) {
			cut--
		}

		html = html[:cut]
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Please convert the following HTML content from the URL '%s' into well-formatted Markdown.\n", url)
	b.WriteString(promptInstructions)
	b.WriteString("\n\n")

	if snippetContext != "" {
		b.WriteString(snippetContext)
		b.WriteString("\n\n")
	}

	b.WriteString("HTML Content:\n```html\n")
	b.WriteString(html)
	b.WriteString("\n```\n\nMarkdown Output:")

	return b.String()
}
