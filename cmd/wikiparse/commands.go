package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/wikiparse/internal/cleaner"
	"github.com/dgallion1/wikiparse/internal/parser"
	"github.com/dgallion1/wikiparse/internal/reference"
	"github.com/dgallion1/wikiparse/internal/render"
	"github.com/dgallion1/wikiparse/internal/search"
)

func newCleanCmd(opts *options) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Strip page chrome between the title and the first content line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := readInput(cmd, opts, argOrEmpty(args, 0))
			if err != nil {
				return err
			}
			if stats {
				writeStats(cmd, cleaner.Analyze(md))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cleaner.Clean(md))
			return err
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "Report skipped line kinds on stderr")
	return cmd
}

func writeStats(cmd *cobra.Command, st cleaner.Stats) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "lines: %d -> %d\n", st.InputLines, st.OutputLines)
	kinds := make([]cleaner.LineKind, 0, len(st.Skipped))
	for k := range st.Skipped {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", k, st.Skipped[k])
	}
}

func newParseCmd(opts *options) *cobra.Command {
	var (
		format string
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the title, section tree and table of contents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}
			md, err := readInput(cmd, opts, argOrEmpty(args, 0))
			if err != nil {
				return err
			}
			if !raw {
				md = cleaner.Clean(md)
			}
			return encode(cmd.OutOrStdout(), format, parser.Parse(md))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or yaml")
	cmd.Flags().BoolVar(&raw, "raw", false, "Skip the cleaner")
	return cmd
}

// renderOutput is the structured form of the render command.
type renderOutput struct {
	Content     string                `json:"content" yaml:"content"`
	HTML        string                `json:"html,omitempty" yaml:"html,omitempty"`
	References  []reference.Reference `json:"references" yaml:"references"`
	Attribution string                `json:"attribution,omitempty" yaml:"attribution,omitempty"`
}

func newRenderCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Segment paragraphs, resolve citations and optionally render HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatMarkdown, formatHTML, formatJSON, formatYAML); err != nil {
				return err
			}
			md, err := readInput(cmd, opts, argOrEmpty(args, 0))
			if err != nil {
				return err
			}
			res := reference.Process(md)
			if format == formatMarkdown {
				_, err = fmt.Fprint(cmd.OutOrStdout(), res.Content)
				return err
			}

			html, err := render.New().HTML(res.Content)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if format == formatHTML {
				_, err = fmt.Fprint(cmd.OutOrStdout(), html)
				return err
			}
			return encode(cmd.OutOrStdout(), format, renderOutput{
				Content:     res.Content,
				HTML:        html,
				References:  res.Sorted(),
				Attribution: res.Attribution,
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "Output format: markdown, html, json or yaml")
	return cmd
}

// searchHit flattens a result for output; the section's subtree is omitted.
type searchHit struct {
	Title   string   `json:"title" yaml:"title"`
	Anchor  string   `json:"anchor" yaml:"anchor"`
	Level   int      `json:"level" yaml:"level"`
	Score   int      `json:"score" yaml:"score"`
	Matches []string `json:"matches" yaml:"matches"`
}

func newSearchCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "search <query> [file]",
		Short: "Rank the article's sections by a case-insensitive query",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}
			query := args[0]
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("query must not be empty")
			}
			md, err := readInput(cmd, opts, argOrEmpty(args, 1))
			if err != nil {
				return err
			}
			pw := parser.Parse(cleaner.Clean(md))
			hits := []searchHit{}
			for _, r := range search.Sections(pw.Sections, query) {
				hits = append(hits, searchHit{
					Title:   r.Section.Title,
					Anchor:  r.Section.Anchor,
					Level:   r.Section.Level,
					Score:   r.Score,
					Matches: r.Matches,
				})
			}
			return encode(cmd.OutOrStdout(), format, hits)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or yaml")
	return cmd
}
