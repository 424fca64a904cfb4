// Package config loads pipeline settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sitemd/sitemd/internal/codeblock"
)

// DefaultFile is consulted when no config path is given.
const DefaultFile = "sitemd.yaml"

const (
	GeneratorGemini = "gemini"
	GeneratorStatic = "static"
)

// Config is the full runtime configuration.
type Config struct {
	SitemapURL          string          `yaml:"sitemap_url"`
	HTMLDir             string          `yaml:"html_dir"`
	MarkdownDir         string          `yaml:"markdown_dir"`
	BatchSize           int             `yaml:"batch_size"`
	RequestDelaySeconds float64         `yaml:"request_delay_seconds"`
	PageLimit           int             `yaml:"page_limit"`
	HTMLCharLimit       int             `yaml:"html_char_limit"`
	Generator           string          `yaml:"generator"`
	Gemini              Gemini          `yaml:"gemini"`
	Snippets            Snippets        `yaml:"snippets"`
	Setup               Setup           `yaml:"setup"`
	Metrics             Metrics         `yaml:"metrics"`
	Log                 Log             `yaml:"log"`
	Rules               codeblock.Rules `yaml:"rules"`
}

// Gemini configures the hosted generator. The key only ever comes from the
// environment.
type Gemini struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Snippets configures the documentation catalog mixed into prompts.
type Snippets struct {
	// Glob selects generated markdown files by base name.
	Glob string `yaml:"glob"`
}

// Setup configures the optional environment bootstrap command run by the
// setup subcommand.
type Setup struct {
	Command string `yaml:"command"`
}

// Metrics configures the optional Prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Log configures console and optional file logging.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		SitemapURL:          "https://docs.crawl4ai.com/sitemap.xml",
		HTMLDir:             "scraped_pages",
		MarkdownDir:         "ai_markdown_pages",
		BatchSize:           5,
		RequestDelaySeconds: 1.5,
		HTMLCharLimit:       30000,
		Generator:           GeneratorGemini,
		Gemini: Gemini{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
		},
		Snippets: Snippets{Glob: "*crawl4ai*"},
		Metrics:  Metrics{Addr: ":9190"},
		Log:      Log{Level: "info"},
		Rules:    codeblock.DefaultRules(),
	}
}

// Load reads configuration from path, keeps defaults for absent fields, and
// applies environment overrides. An empty path loads [DefaultFile] when
// present and plain defaults otherwise.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if uerr := yaml.Unmarshal(data, &cfg); uerr != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, uerr)
		}
	case explicit || !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Delay returns the pause inserted between conversions.
func (c Config) Delay() time.Duration {
	return time.Duration(c.RequestDelaySeconds * float64(time.Second))
}

func (c *Config) applyEnv() {
	c.Gemini.APIKey = envOr("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Generator = envOr("SITEMD_GENERATOR", c.Generator)
	c.Log.Level = envOr("SITEMD_LOG_LEVEL", c.Log.Level)
}

func (c Config) validate() error {
	if c.SitemapURL == "" {
		return fmt.Errorf("%w: sitemap_url is empty", errInvalid)
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be positive", errInvalid)
	}

	switch c.Generator {
	case GeneratorGemini, GeneratorStatic:
	default:
		return fmt.Errorf("%w: unknown generator %q", errInvalid, c.Generator)
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

var errInvalid = errors.New("invalid configuration")
