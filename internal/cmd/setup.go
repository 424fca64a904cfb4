package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/sitemd/sitemd/internal/config"
)

//go:embed help/setup.md
var setupHelp string

func setupCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "setup [flags] [-- command]",
		Short: "Run the environment bootstrap command",
		Long:  setupHelp,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := opts.cfg.Setup.Command

			if len(args) > 0 {
				joined, err := joinCommand(args)
				if err != nil {
					return err
				}

				command = joined
			}

			if command == "" {
				return errNoSetupCommand
			}

			opts.logger.Info().Str("command", command).Msg("running setup command")

			code, err := runCommand(cmd.Context(), command, ".", cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if code != 0 {
				return fmt.Errorf("setup command exited with %d", code)
			}

			if err := markSetupDone(opts.cfg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Setup complete")

			return nil
		},
		DisableAutoGenTag: true,
	}
}

// joinCommand rebuilds a shell command line from argv words, quoting each so
// arguments with spaces survive the round trip.
func joinCommand(args []string) (string, error) {
	words := make([]string, len(args))

	for i, arg := range args {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", arg, err)
		}

		words[i] = quoted
	}

	return strings.Join(words, " "), nil
}

func runCommand(ctx context.Context, command, dir string, stdout, stderr io.Writer) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return -1, err
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(os.Stdin, stdout, stderr))
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}

// markerPath names the file recording that setup completed. It lives next to
// the crawl output so a fresh workspace prompts a fresh setup.
func markerPath(cfg config.Config) string {
	return filepath.Join(cfg.HTMLDir, ".setup-done")
}

func setupDone(cfg config.Config) bool {
	_, err := os.Stat(markerPath(cfg))

	return err == nil
}

func markSetupDone(cfg config.Config) error {
	if err := os.MkdirAll(cfg.HTMLDir, dirMode); err != nil {
		return err
	}

	return os.WriteFile(markerPath(cfg), []byte(time.Now().UTC().Format(time.RFC3339)+"\n"), fileMode)
}

var errNoSetupCommand = errors.New("no setup command configured; set setup.command or pass one after --")
