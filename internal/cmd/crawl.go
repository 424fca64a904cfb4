package cmd

import (
	_ "embed"

	"github.com/spf13/cobra"
)

//go:embed help/crawl.md
var crawlHelp string

func crawlCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "crawl [flags]",
		Short: "Download every sitemap page and store the HTML",
		Long:  crawlHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flag("limit").Changed {
				opts.cfg.PageLimit = limit
			}

			p, err := opts.newPipeline(false)
			if err != nil {
				return err
			}

			opts.serveMetrics()

			summary, err := p.Crawl(cmd.Context())
			if err != nil {
				return err
			}

			printCrawlSummary(cmd.OutOrStdout(), summary)

			return nil
		},
		DisableAutoGenTag: true,
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many pages (0 crawls everything)")

	return cmd
}
