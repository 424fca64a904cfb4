package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, "https://docs.crawl4ai.com/sitemap.xml", cfg.SitemapURL)
	assert.Equal(t, "scraped_pages", cfg.HTMLDir)
	assert.Equal(t, "ai_markdown_pages", cfg.MarkdownDir)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 30000, cfg.HTMLCharLimit)
	assert.Equal(t, GeneratorGemini, cfg.Generator)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "*crawl4ai*", cfg.Snippets.Glob)
	assert.Empty(t, cfg.Setup.Command)
	assert.NotEmpty(t, cfg.Rules.DocDomains)
}

func TestDelay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1500*time.Millisecond, Default().Delay())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitemd.yaml")

	content := `sitemap_url: https://ai.pydantic.dev/sitemap.xml
batch_size: 2
generator: static
setup:
  command: playwright install chromium
rules:
  doc_domains:
    - ai.pydantic.dev
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SITEMD_GENERATOR", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ai.pydantic.dev/sitemap.xml", cfg.SitemapURL)
	assert.Equal(t, 2, cfg.BatchSize)
	assert.Equal(t, GeneratorStatic, cfg.Generator)
	assert.Equal(t, "playwright install chromium", cfg.Setup.Command)
	assert.Equal(t, []string{"ai.pydantic.dev"}, cfg.Rules.DocDomains)

	// Untouched fields keep their defaults.
	assert.Equal(t, "scraped_pages", cfg.HTMLDir)
	assert.Equal(t, 1.5, cfg.RequestDelaySeconds)
	assert.NotEmpty(t, cfg.Rules.CallSites)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SITEMD_GENERATOR", "")
	t.Setenv("SITEMD_LOG_LEVEL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default().SitemapURL, cfg.SitemapURL)
	assert.Empty(t, cfg.Gemini.APIKey)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SITEMD_GENERATOR", "static")
	t.Setenv("SITEMD_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, GeneratorStatic, cfg.Generator)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")

	require.NoError(t, os.WriteFile(path, []byte("batch_size: 0\n"), 0o644))

	t.Setenv("SITEMD_GENERATOR", "")

	_, err := Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("generator: carrier-pigeon\n"), 0o644))

	_, err = Load(path)
	require.Error(t, err)
}
