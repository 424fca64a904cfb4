package cmd

import (
	_ "embed"

	"github.com/spf13/cobra"
)

//go:embed help/run.md
var runHelp string

func runCmd(opts *options) *cobra.Command {
	var (
		skipCrawl   bool
		skipConvert bool
		metricsAddr string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "run [flags]",
		Aliases: []string{"r"},
		Short:   "Crawl the configured site and convert it to markdown",
		Long:    runHelp,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flag("metrics-addr").Changed {
				opts.cfg.Metrics.Enabled = true
				opts.cfg.Metrics.Addr = metricsAddr
			}

			if opts.cfg.Setup.Command != "" && !setupDone(opts.cfg) {
				opts.logger.Warn().
					Str("command", opts.cfg.Setup.Command).
					Msg("setup command configured but never run; run 'sitemd setup' first")
			}

			p, err := opts.newPipeline(!skipConvert)
			if err != nil {
				return err
			}

			opts.serveMetrics()

			summary, err := p.Run(cmd.Context(), skipCrawl, skipConvert)

			printRunSummary(cmd.OutOrStdout(), summary)

			return err
		},
		DisableAutoGenTag: true,
	}

	cmd.Flags().BoolVar(&skipCrawl, "skip-crawl", false, "convert already stored pages without crawling")
	cmd.Flags().BoolVar(&skipConvert, "skip-convert", false, "crawl without converting to markdown")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	return cmd
}
