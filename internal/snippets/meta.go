package snippets

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// Meta holds the attributes of a fenced code block's info string, e.g. the
// title in ```python title=crawl.py. Attribute values are normalized to
// strings.
type Meta map[string]string

// Get returns the attribute value for name, or "" when absent.
func (m Meta) Get(name string) string {
	return m[name]
}

// parseInfo splits a fence info string into its leading language word and
// trailing attributes. Attributes come as key=value words, optionally
// wrapped in braces, or as a JSON object.
func parseInfo(info []byte) (string, Meta, error) {
	fields := strings.TrimSpace(string(info))
	if fields == "" {
		return "", nil, nil
	}

	lang := fields
	attrs := ""

	if i := strings.IndexAny(fields, " \t"); i >= 0 {
		lang, attrs = fields[:i], strings.TrimSpace(fields[i+1:])
	}

	if attrs == "" {
		return lang, nil, nil
	}

	meta, err := parseAttrs(attrs)

	return lang, meta, err
}

func parseAttrs(input string) (Meta, error) {
	if strings.HasPrefix(input, "{") {
		inner := strings.TrimSpace(input[1:])
		if strings.HasPrefix(inner, `"`) || strings.HasPrefix(inner, "}") {
			return unmarshalAttrs(input)
		}

		if strings.HasSuffix(input, "}") {
			input = strings.TrimSpace(input[1 : len(input)-1])
		}
	}

	words, err := shlex.Split(input)
	if err != nil {
		return nil, fmt.Errorf("parse block attributes: %w", err)
	}

	meta := make(Meta, len(words))

	for _, word := range words {
		key, value, found := strings.Cut(word, "=")
		if !found || key == "" {
			continue
		}

		meta[key] = value
	}

	return meta, nil
}

func unmarshalAttrs(input string) (Meta, error) {
	var raw map[string]any

	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, fmt.Errorf("parse block attributes: %w", err)
	}

	meta := make(Meta, len(raw))

	for key, value := range raw {
		if s, ok := value.(string); ok {
			meta[key] = s

			continue
		}

		meta[key] = fmt.Sprint(value)
	}

	return meta, nil
}
