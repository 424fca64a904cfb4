package cmd

import (
	_ "embed"

	"github.com/spf13/cobra"
)

//go:embed help/convert.md
var convertHelp string

func convertCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "convert [flags]",
		Short: "Convert stored HTML pages into enhanced markdown",
		Long:  convertHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.newPipeline(true)
			if err != nil {
				return err
			}

			opts.serveMetrics()

			summary, err := p.Convert(cmd.Context())
			if err != nil {
				return err
			}

			printConvertSummary(cmd.OutOrStdout(), summary)

			return nil
		},
		DisableAutoGenTag: true,
	}
}
