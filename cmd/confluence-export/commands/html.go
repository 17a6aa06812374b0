package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okibox/confluence-export/internal/htmlconv"
	"github.com/okibox/confluence-export/internal/processor"
)

var htmlCmd = &cobra.Command{
	Use:   "html [input-file]",
	Short: "Convert Confluence HTML to Markdown",
	Long: `Convert rendered Confluence HTML to Markdown.

Reads HTML from a file or stdin. With --export the input is treated as a
page from a Confluence HTML space export: the page body is extracted from
the main-content container and the output file is named after the page
title.

Examples:
  # Convert a fragment from stdin
  cat page.html | confluence-export html

  # Convert a space-export page into a named file
  confluence-export html GettingStarted.html --export -o ./docs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHTML,
}

var htmlOpts struct {
	Output string
	Export bool
}

func init() {
	rootCmd.AddCommand(htmlCmd)

	htmlCmd.Flags().StringVarP(&htmlOpts.Output, "output", "o", "", "Output file, or directory with --export (default: stdout)")
	htmlCmd.Flags().BoolVar(&htmlOpts.Export, "export", false, "Treat input as a Confluence HTML space-export page")
}

func runHTML(_ *cobra.Command, args []string) error {
	var input []byte
	var err error
	if len(args) > 0 {
		input, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	}
	if len(input) == 0 {
		return fmt.Errorf("no input provided")
	}

	conv := htmlconv.NewConverter()

	if htmlOpts.Export {
		page, markdown, err := conv.ConvertExportPage(string(input))
		if err != nil {
			return err
		}
		if htmlOpts.Output == "" {
			fmt.Print(markdown)
			return nil
		}
		name := processor.SanitizeFilename(page.Title) + ".md"
		path := filepath.Join(htmlOpts.Output, name)
		if err := os.MkdirAll(htmlOpts.Output, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	markdown, err := conv.Convert(string(input))
	if err != nil {
		return err
	}
	if htmlOpts.Output == "" {
		fmt.Print(markdown)
		return nil
	}
	if err := os.WriteFile(htmlOpts.Output, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", htmlOpts.Output, err)
	}
	fmt.Printf("Wrote %s\n", htmlOpts.Output)
	return nil
}
