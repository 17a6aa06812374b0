package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okibox/confluence-export/internal/processor"
	"github.com/okibox/confluence-export/internal/writer"
)

var pageCmd = &cobra.Command{
	Use:   "page <page-url | page-id>",
	Short: "Export a single Confluence page",
	Long: `Export a single Confluence page to Markdown or AsciiDoc.

Accepts either a full page URL or a numeric page ID together with
--base-url. Images referenced by the page are downloaded next to the
content file by default.

Examples:
  # Export a page by URL
  confluence-export page https://example.atlassian.net/wiki/spaces/TEAM/pages/12345/Title

  # Export to a custom directory as AsciiDoc
  confluence-export page 12345 --base-url https://example.atlassian.net -o ./docs -f asciidoc

  # Keep the raw storage body for debugging
  confluence-export page 12345 --base-url https://example.atlassian.net --save-raw`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

var pageOpts struct {
	authOptions
	commonOptions
}

func init() {
	rootCmd.AddCommand(pageCmd)

	pageOpts.authOptions.InitFlags(pageCmd)
	pageOpts.commonOptions.InitFlags(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	if err := pageOpts.applyConfigDefaults(cmd); err != nil {
		return err
	}
	format, err := pageOpts.outputFormat()
	if err != nil {
		return err
	}

	baseURL, pageID, err := resolveTarget(args[0], &pageOpts.authOptions)
	if err != nil {
		return err
	}

	client, _, err := newClient(&pageOpts.authOptions, baseURL, &pageOpts.commonOptions)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	page, err := client.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}

	processed, err := processor.Process(ctx, client, page, pageOpts.processOptions(format))
	if err != nil {
		return err
	}

	if pageOpts.DryRun {
		printDryRun(processed)
		return nil
	}

	path, err := writer.WritePage(processed, pageOpts.OutputDir, format, pageOpts.Overwrite)
	if err != nil {
		return err
	}

	printExported(processed, path)
	return nil
}

func printExported(p *processor.ProcessedPage, path string) {
	color.New(color.FgGreen).Printf("Exported %s\n", path)
	if len(p.Images) > 0 {
		fmt.Printf("  images: %d\n", len(p.Images))
	}
	if len(p.Attachments) > 0 {
		fmt.Printf("  attachments: %d\n", len(p.Attachments))
	}
}

func printDryRun(p *processor.ProcessedPage) {
	color.New(color.FgYellow).Printf("Dry run: would write %s (%d bytes)\n", p.Filename, len(p.Content))
}
