// Package cmd implements the sitemd command line interface.
package cmd

import (
	"context"
	_ "embed"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sitemd/sitemd/internal/config"
	"github.com/sitemd/sitemd/internal/logging"
)

//go:embed help/root.md
var rootHelp string

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// options carries state shared by the subcommands. The config and logger
// fields are populated by the root command before any RunE executes.
type options struct {
	configPath string
	logLevel   string
	logFile    string

	cfg    config.Config
	logger zerolog.Logger
	closer func()
}

// Execute runs the command line with the given arguments and output streams
// and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := rootCmd(&options{}) //nolint:exhaustruct
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "sitemd",
		Short: "Convert documentation sites into AI-enhanced markdown",
		Long:  rootHelp,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			if cmd.Flag("log-level").Changed {
				cfg.Log.Level = opts.logLevel
			}

			if cmd.Flag("log-file").Changed {
				cfg.Log.File = opts.logFile
			}

			logger, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts.cfg = cfg
			opts.logger = logger
			opts.closer = closer

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.closer != nil {
				opts.closer()
			}
		},

		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultFile+" when present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "append JSON logs to this file")

	cmd.AddCommand(
		checkCmd(opts),
		crawlCmd(opts),
		convertCmd(opts),
		runCmd(opts),
		blocksCmd(opts),
		setupCmd(opts),
	)

	return cmd
}
