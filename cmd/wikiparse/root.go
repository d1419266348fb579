package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/wikiparse/internal/normalize"
)

// Output formats shared by the structured commands.
const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

type options struct {
	html      bool
	sourceURL string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "wikiparse",
		Short: "Clean, parse, render and search scraped encyclopedia articles",
		Long: `wikiparse normalizes scraped encyclopedia markdown: it strips page chrome,
builds the section tree and table of contents, resolves numbered citations
and searches sections.

Input is read from the file argument, or stdin when none is given.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.html, "html", false, "Input is HTML; convert it to markdown first")
	root.PersistentFlags().StringVar(&opts.sourceURL, "url", "", "Source URL, used to resolve relative links in HTML input")

	root.AddCommand(
		newCleanCmd(opts),
		newParseCmd(opts),
		newRenderCmd(opts),
		newSearchCmd(opts),
	)
	return root
}

// readInput returns the markdown named by path, or stdin when path is empty.
// HTML input is normalized to markdown.
func readInput(cmd *cobra.Command, opts *options, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	if !opts.html {
		return string(data), nil
	}
	md, err := normalize.New().Markdown(string(data), opts.sourceURL)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}
	return md, nil
}

func argOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// encode writes v as indented JSON or as YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("invalid --format %q (want %s)", format, strings.Join(allowed, ", "))
}
