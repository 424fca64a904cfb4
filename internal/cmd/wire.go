package cmd

import (
	"github.com/sitemd/sitemd/internal/codeblock"
	"github.com/sitemd/sitemd/internal/config"
	"github.com/sitemd/sitemd/internal/document"
	"github.com/sitemd/sitemd/internal/fetch"
	"github.com/sitemd/sitemd/internal/generate"
	"github.com/sitemd/sitemd/internal/metrics"
	"github.com/sitemd/sitemd/internal/pipeline"
	"github.com/sitemd/sitemd/internal/sitemap"
	"github.com/sitemd/sitemd/internal/snippets"
	"github.com/sitemd/sitemd/internal/store"
)

// newPipeline wires the crawl and convert stages from the loaded
// configuration. The generator and assembler are only constructed when
// withConvert is set, so crawl-only invocations work without an API key.
func (o *options) newPipeline(withConvert bool) (*pipeline.Pipeline, error) {
	popts := pipeline.Options{ //nolint:exhaustruct
		Config:  o.cfg,
		Store:   o.newStore(),
		Source:  sitemap.New(),
		Fetcher: fetch.New(),
		Logger:  o.logger,
	}

	if withConvert {
		gen, err := o.newGenerator()
		if err != nil {
			return nil, err
		}

		popts.Generator = gen
		popts.Assembler = document.New(codeblock.New(o.cfg.Rules), gen.Name())
	}

	return pipeline.New(popts), nil
}

func (o *options) newStore() *store.Store {
	return store.New(o.cfg.HTMLDir, o.cfg.MarkdownDir)
}

// newGenerator selects the configured markdown generator. The hosted one is
// handed the snippet catalog; the static one is deterministic and needs
// neither key nor catalog.
func (o *options) newGenerator() (generate.Generator, error) {
	if o.cfg.Generator == config.GeneratorStatic {
		return generate.NewStatic(), nil
	}

	catalog, err := o.newCatalog()
	if err != nil {
		return nil, err
	}

	return generate.NewGemini(generate.GeminiOptions{
		APIKey:    o.cfg.Gemini.APIKey,
		BaseURL:   o.cfg.Gemini.BaseURL,
		Model:     o.cfg.Gemini.Model,
		CharLimit: o.cfg.HTMLCharLimit,
	}, catalog, o.logger)
}

// newCatalog snapshots previously generated markdown once per invocation.
func (o *options) newCatalog() (*snippets.Catalog, error) {
	fsys, ok := o.newStore().MarkdownFS()
	if !ok {
		return new(snippets.Catalog), nil
	}

	return snippets.Load(fsys, o.cfg.Snippets.Glob)
}

func (o *options) serveMetrics() {
	if o.cfg.Metrics.Enabled {
		metrics.Serve(o.cfg.Metrics.Addr, o.logger)
	}
}
