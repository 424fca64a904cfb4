package cmd

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitemd/sitemd/internal/sitemap"
)

//go:embed help/check.md
var checkHelp string

// sampleURLs caps how many URLs the check command prints.
const sampleURLs = 3

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "check [flags] [sitemap-url]",
		Short: "Fetch a sitemap and report what it contains",
		Long:  checkHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := opts.cfg.SitemapURL
			if len(args) == 1 {
				url = args[0]
			}

			urls, err := sitemap.New().Fetch(cmd.Context(), url)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Found %d URLs in sitemap\n", len(urls))

			if len(urls) == 0 {
				return nil
			}

			fmt.Fprintf(out, "First %d URLs:\n", min(sampleURLs, len(urls)))

			for i, u := range urls {
				if i == sampleURLs {
					break
				}

				fmt.Fprintf(out, "  - %s\n", u)
			}

			return nil
		},
		DisableAutoGenTag: true,
	}
}
