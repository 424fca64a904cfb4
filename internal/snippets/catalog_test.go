package snippets

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAll(t *testing.T, files map[string]string) fs.FS {
	t.Helper()

	memfs := memoryfs.New()

	for name, content := range files {
		require.NoError(t, memfs.WriteFile(name, []byte(content), 0o644))
	}

	return memfs
}

func catalogFS(t *testing.T) fs.FS {
	t.Helper()

	return writeAll(t, map[string]string{
		"docs.crawl4ai.com_install.md": "---\n" +
			"url: https://docs.crawl4ai.com/core/installation\n" +
			"source: gemini\n" +
			"domain: docs.crawl4ai.com\n" +
			"content_type: documentation\n" +
			"contains_code: true\n" +
			"code_blocks_count: 1\n" +
			"formatter_version: 2.1\n" +
			"---\n\n" +
			"# Installation\n\n```python\nimport asyncio\nresult = \"install\"\n```\n",
		"docs.crawl4ai.com_config.md": "---\n" +
			"url: https://docs.crawl4ai.com/core/config\n" +
			"source: gemini\n" +
			"domain: docs.crawl4ai.com\n" +
			"content_type: documentation\n" +
			"contains_code: true\n" +
			"code_blocks_count: 1\n" +
			"formatter_version: 2.1\n" +
			"---\n\n" +
			"# Configuration\n\n```json\n{\n  \"verbose\": true\n}\n```\n",
		"ai.pydantic.dev_agents.md": "---\n" +
			"url: https://ai.pydantic.dev/agents\n" +
			"source: gemini\n" +
			"domain: ai.pydantic.dev\n" +
			"content_type: documentation\n" +
			"contains_code: true\n" +
			"code_blocks_count: 1\n" +
			"formatter_version: 2.1\n" +
			"---\n\n" +
			"# Agents\n\n```python\nfrom pydantic_ai import Agent\n```\n",
		"notes.txt": "not markdown\n",
	})
}

func TestCatalogLoad(t *testing.T) {
	t.Parallel()

	catalog, err := Load(catalogFS(t), "*.md")
	require.NoError(t, err)

	docs := catalog.Docs()
	require.Len(t, docs, 3)

	assert.Equal(t, "ai.pydantic.dev_agents.md", docs[0].Path)
	assert.Equal(t, "Agents", docs[0].Title)
	assert.Equal(t, "ai.pydantic.dev", docs[0].Meta.Domain)

	assert.Equal(t, "Configuration", docs[1].Title)
	assert.Equal(t, "Installation", docs[2].Title)
	assert.Equal(t, "https://docs.crawl4ai.com/core/installation", docs[2].Meta.URL)
}

func TestCatalogPatternFilter(t *testing.T) {
	t.Parallel()

	catalog, err := Load(catalogFS(t), "docs.crawl4ai.com*")
	require.NoError(t, err)

	assert.Len(t, catalog.Docs(), 2)
}

func TestCatalogBadPattern(t *testing.T) {
	t.Parallel()

	_, err := Load(catalogFS(t), "[")
	require.Error(t, err)
}

func TestCatalogContext(t *testing.T) {
	t.Parallel()

	catalog, err := Load(catalogFS(t), "*.md")
	require.NoError(t, err)

	ctx := catalog.Context("docs.crawl4ai.com")

	want := "Example from Installation:\n```python\nimport asyncio\nresult = \"install\"\n```"
	assert.Equal(t, want, ctx)
}

func TestCatalogContextAllDomains(t *testing.T) {
	t.Parallel()

	catalog, err := Load(catalogFS(t), "*.md")
	require.NoError(t, err)

	ctx := catalog.Context("")

	assert.Contains(t, ctx, "Example from Agents:")
	assert.Contains(t, ctx, "Example from Installation:")
	assert.NotContains(t, ctx, "Configuration")
}

func TestCatalogContextFallback(t *testing.T) {
	t.Parallel()

	catalog, err := Load(catalogFS(t), "*.md")
	require.NoError(t, err)

	ctx := catalog.Context("missing.example.com")

	assert.Contains(t, ctx, "Example Crawl4AI usage:")
	assert.Contains(t, ctx, "AsyncWebCrawler")
}

func TestCatalogContextCap(t *testing.T) {
	t.Parallel()

	files := make(map[string]string, 4)

	for i := 1; i <= 4; i++ {
		files[fmt.Sprintf("page%d.md", i)] = fmt.Sprintf(
			"---\ndomain: docs.example.com\n---\n\n# Page %d\n\n```python\nx = %d\n```\n", i, i)
	}

	catalog, err := Load(writeAll(t, files), "*.md")
	require.NoError(t, err)

	ctx := catalog.Context("docs.example.com")

	assert.Equal(t, 3, strings.Count(ctx, "Example from"))
}

func TestCatalogPlainFiles(t *testing.T) {
	t.Parallel()

	catalog, err := Load(writeAll(t, map[string]string{
		"readme.md": "# Plain Notes\n\nNo header here.\n\n```python\nx = 1\n```\n",
		"bare.md":   "```python\ny = 2\n```\n",
	}), "*.md")
	require.NoError(t, err)

	docs := catalog.Docs()
	require.Len(t, docs, 2)

	assert.Equal(t, "bare.md", docs[0].Title)
	assert.Equal(t, "Plain Notes", docs[1].Title)
	assert.Empty(t, docs[1].Meta.Domain)
}
