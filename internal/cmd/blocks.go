package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/sitemd/sitemd/internal/codeblock"
	"github.com/sitemd/sitemd/internal/snippets"
)

//go:embed help/blocks.md
var blocksHelp string

func blocksCmd(opts *options) *cobra.Command {
	var (
		langs []string
		write bool
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "blocks [flags] filename",
		Aliases: []string{"b"},
		Short:   "List or reformat the fenced code blocks of a markdown file",
		Long:    blocksHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := langFilter(langs)
			if err != nil {
				return err
			}

			proc := codeblock.New(opts.cfg.Rules)

			if write {
				return writeBlocks(args[0], proc, filter)
			}

			return listBlocks(cmd.OutOrStdout(), args[0], proc, filter)
		},
		DisableAutoGenTag: true,
	}

	cmd.Flags().StringSliceVarP(&langs, "lang", "l", nil, "only blocks whose language tag matches one of these globs")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "reformat matching blocks in place")

	return cmd
}

// filterFunc reports whether a block should be processed.
type filterFunc func(block *snippets.Block) bool

func langFilter(patterns []string) (filterFunc, error) {
	if len(patterns) == 0 {
		return func(*snippets.Block) bool { return true }, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad lang pattern %q: %w", pattern, err)
		}

		globs = append(globs, g)
	}

	return func(block *snippets.Block) bool {
		for _, g := range globs {
			if g.Match(block.Lang) {
				return true
			}
		}

		return false
	}, nil
}

func listBlocks(out io.Writer, filename string, proc *codeblock.Processor, filter filterFunc) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	blocks, err := snippets.Extract(src)
	if err != nil {
		return err
	}

	tbl := table.New("#", "Lines", "Tag", "Title", "Detected", "Bytes").WithWriter(out)

	for i, block := range blocks {
		if !filter(block) {
			continue
		}

		tag := block.Lang
		if tag == "" {
			tag = "-"
		}

		title := block.Meta.Get("title")
		if title == "" {
			title = "-"
		}

		detected := proc.Detect(string(block.Code), block.Lang, "")

		tbl.AddRow(i, fmt.Sprintf("%d-%d", block.StartLine, block.EndLine), tag, title, detected, len(block.Code))
	}

	tbl.Print()

	return nil
}

func writeBlocks(filename string, proc *codeblock.Processor, filter filterFunc) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	changed, result, err := snippets.Walk(src, reformatVisitor(proc, filter))
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	return os.WriteFile(filename, result, fileMode)
}

// reformatVisitor rewrites each matching block's code through detection and
// reformatting. Fence tags stay as the author wrote them; only the code
// between the fences changes.
func reformatVisitor(proc *codeblock.Processor, filter filterFunc) snippets.Visitor {
	return func(block *snippets.Block) error {
		if !filter(block) || len(block.Code) == 0 {
			return nil
		}

		code := string(block.Code)

		formatted, _ := proc.Reformat(code, proc.Detect(code, block.Lang, ""), "")
		if !strings.HasSuffix(formatted, "\n") {
			formatted += "\n"
		}

		block.Code = []byte(formatted)

		return nil
	}
}
