// Package pipeline orchestrates the crawl and convert stages.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sitemd/sitemd/internal/config"
	"github.com/sitemd/sitemd/internal/document"
	"github.com/sitemd/sitemd/internal/generate"
	"github.com/sitemd/sitemd/internal/metrics"
	"github.com/sitemd/sitemd/internal/store"
)

// URLSource lists the pages of a site.
type URLSource interface {
	Fetch(ctx context.Context, url string) ([]string, error)
}

// PageFetcher downloads one page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options carries the pipeline's collaborators.
type Options struct {
	Config    config.Config
	Store     *store.Store
	Source    URLSource
	Fetcher   PageFetcher
	Generator generate.Generator
	Assembler *document.Assembler
	Logger    zerolog.Logger
}

// Pipeline runs the two stages of a site conversion.
type Pipeline struct {
	cfg     config.Config
	store   *store.Store
	source  URLSource
	fetcher PageFetcher
	gen     generate.Generator
	asm     *document.Assembler
	logger  zerolog.Logger
	sleep   func(time.Duration)
}

// New wires a Pipeline from its collaborators.
func New(opts Options) *Pipeline {
	return &Pipeline{
		cfg:     opts.Config,
		store:   opts.Store,
		source:  opts.Source,
		fetcher: opts.Fetcher,
		gen:     opts.Generator,
		asm:     opts.Assembler,
		logger:  opts.Logger,
		sleep:   time.Sleep,
	}
}

// CrawlSummary reports the crawl stage.
type CrawlSummary struct {
	Domain string
	Total  int
	Saved  int
	Failed int
}

// ConvertSummary reports the convert stage.
type ConvertSummary struct {
	Domain    string
	Total     int
	Converted int
	Skipped   int
	Failed    int
}

// RunSummary aggregates both stages of a workflow run.
type RunSummary struct {
	Crawl      CrawlSummary
	RanCrawl   bool
	Convert    ConvertSummary
	RanConvert bool
}

// Crawl fetches every page listed by the configured sitemap and stores the
// HTML. Pages are fetched in batches; a page that fails to download is
// recorded and skipped rather than stopping the run.
func (p *Pipeline) Crawl(ctx context.Context) (CrawlSummary, error) {
	urls, err := p.source.Fetch(ctx, p.cfg.SitemapURL)
	if err != nil {
		return CrawlSummary{}, err
	}

	if p.cfg.PageLimit > 0 && len(urls) > p.cfg.PageLimit {
		urls = urls[:p.cfg.PageLimit]
	}

	domain := document.Domain(p.cfg.SitemapURL)
	summary := CrawlSummary{Domain: domain, Total: len(urls)}

	p.logger.Info().Str("domain", domain).Int("pages", len(urls)).Msg("starting crawl")

	var mu sync.Mutex

	for start := 0; start < len(urls); start += p.cfg.BatchSize {
		end := min(start+p.cfg.BatchSize, len(urls))

		g, gctx := errgroup.WithContext(ctx)

		for _, url := range urls[start:end] {
			g.Go(func() error {
				html, ferr := p.fetcher.Fetch(gctx, url)
				if ferr != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}

					p.logger.Warn().Err(ferr).Str("url", url).Msg("page fetch failed")
					metrics.PagesCrawledTotal.WithLabelValues("failed").Inc()

					mu.Lock()
					summary.Failed++
					mu.Unlock()

					return nil
				}

				if _, serr := p.store.SavePage(domain, store.Page{URL: url, HTML: html}); serr != nil {
					return serr
				}

				metrics.PagesCrawledTotal.WithLabelValues("saved").Inc()

				mu.Lock()
				summary.Saved++
				mu.Unlock()

				p.logger.Debug().Str("url", url).Msg("page stored")

				return nil
			})
		}

		if werr := g.Wait(); werr != nil {
			return summary, werr
		}
	}

	return summary, nil
}

// Convert renders every stored page of the configured domain to markdown.
// Pages that already have markdown are skipped, and a delay spaces out
// generator calls.
func (p *Pipeline) Convert(ctx context.Context) (ConvertSummary, error) {
	domain := document.Domain(p.cfg.SitemapURL)

	paths, err := p.store.ListPages(domain)
	if err != nil {
		return ConvertSummary{}, err
	}

	summary := ConvertSummary{Domain: domain, Total: len(paths)}

	p.logger.Info().
		Str("domain", domain).
		Int("pages", len(paths)).
		Str("generator", p.gen.Name()).
		Msg("starting conversion")

	for _, path := range paths {
		if cerr := ctx.Err(); cerr != nil {
			return summary, cerr
		}

		page, lerr := p.store.LoadPage(path)
		if lerr != nil {
			p.logger.Warn().Err(lerr).Str("path", path).Msg("skipping unreadable page")
			metrics.PagesConvertedTotal.WithLabelValues("failed").Inc()
			summary.Failed++

			continue
		}

		if p.store.MarkdownExists(page.URL) {
			p.logger.Debug().Str("url", page.URL).Msg("markdown exists, skipping")
			metrics.PagesConvertedTotal.WithLabelValues("skipped").Inc()
			summary.Skipped++

			continue
		}

		timer := prometheus.NewTimer(metrics.GenerateLatencySeconds.WithLabelValues(p.gen.Name()))

		markdown, gerr := p.gen.Generate(ctx, page.HTML, page.URL)

		timer.ObserveDuration()

		if gerr != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}

			p.logger.Warn().Err(gerr).Str("url", page.URL).Msg("conversion failed")
			metrics.PagesConvertedTotal.WithLabelValues("failed").Inc()
			summary.Failed++

			p.sleep(p.cfg.Delay())

			continue
		}

		if _, serr := p.store.SaveMarkdown(page.URL, p.asm.Assemble(markdown, page.URL)); serr != nil {
			return summary, serr
		}

		metrics.PagesConvertedTotal.WithLabelValues("converted").Inc()
		summary.Converted++

		p.logger.Info().Str("url", page.URL).Msg("converted")

		p.sleep(p.cfg.Delay())
	}

	return summary, nil
}

// Run executes crawl then convert, honoring the skip flags.
func (p *Pipeline) Run(ctx context.Context, skipCrawl, skipConvert bool) (RunSummary, error) {
	var run RunSummary

	if !skipCrawl {
		crawl, err := p.Crawl(ctx)

		run.Crawl = crawl
		run.RanCrawl = true

		if err != nil {
			return run, err
		}
	}

	if !skipConvert {
		conv, err := p.Convert(ctx)

		run.Convert = conv
		run.RanConvert = true

		if err != nil {
			return run, err
		}
	}

	return run, nil
}
