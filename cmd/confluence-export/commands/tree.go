package commands

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"

	"github.com/okibox/confluence-export/internal/confluence"
	"github.com/okibox/confluence-export/internal/converter"
	"github.com/okibox/confluence-export/internal/processor"
	"github.com/okibox/confluence-export/internal/writer"
)

var treeCmd = &cobra.Command{
	Use:   "tree <page-url | page-id>",
	Short: "Export a page and all of its descendants",
	Long: `Export a Confluence page together with its descendant pages.

Each page is written into a subdirectory named after its parent's
sanitized title, mirroring the page hierarchy. Parents are always written
before their descendants; sibling subtrees may be exported in parallel.

Examples:
  # Export a whole subtree
  confluence-export tree https://example.atlassian.net/wiki/spaces/TEAM/pages/12345/Title

  # Limit depth and export four pages at a time
  confluence-export tree 12345 --base-url https://example.atlassian.net --depth 2 --parallel 4`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

var treeOpts struct {
	authOptions
	commonOptions
	Depth    int
	Parallel int
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeOpts.authOptions.InitFlags(treeCmd)
	treeOpts.commonOptions.InitFlags(treeCmd)
	treeCmd.Flags().IntVar(&treeOpts.Depth, "depth", confluence.NoDepthLimit, "Maximum descent depth (-1 for unlimited)")
	treeCmd.Flags().IntVar(&treeOpts.Parallel, "parallel", 1, "Number of sibling subtrees exported concurrently")
}

func runTree(cmd *cobra.Command, args []string) error {
	if err := treeOpts.applyConfigDefaults(cmd); err != nil {
		return err
	}
	format, err := treeOpts.outputFormat()
	if err != nil {
		return err
	}
	if treeOpts.Parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1")
	}

	baseURL, pageID, err := resolveTarget(args[0], &treeOpts.authOptions)
	if err != nil {
		return err
	}
	client, _, err := newClient(&treeOpts.authOptions, baseURL, &treeOpts.commonOptions)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tree, err := confluence.BuildPageTree(ctx, client, pageID, treeOpts.Depth)
	if err != nil {
		return err
	}
	total := tree.Count()
	fmt.Printf("Exporting %d pages to %s\n", total, treeOpts.OutputDir)

	progress := mpb.New(mpb.WithOutput(os.Stderr), mpb.WithWidth(40))
	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("pages "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	exp := &treeExporter{
		client:   client,
		format:   format,
		procOpts: treeOpts.processOptions(format),
		bar:      bar,
	}
	err = exp.exportSubtree(ctx, tree, treeOpts.OutputDir)
	progress.Wait()
	if err != nil {
		return err
	}

	if failed := exp.failed.Load(); failed > 0 {
		color.New(color.FgYellow).Printf("Exported %d pages, %d failed\n", int64(total)-failed, failed)
		return nil
	}
	color.New(color.FgGreen).Printf("Exported %d pages\n", total)
	return nil
}

type treeExporter struct {
	client   confluence.API
	format   converter.Format
	procOpts processor.ProcessOptions
	bar      *mpb.Bar
	failed   atomic.Int64
}

// exportSubtree writes a node and then its children. The parent's content
// and assets are fully on disk before any descendant directory appears. A
// page that fails to process is logged and skipped; its descendants are
// still exported under a directory derived from its title.
func (e *treeExporter) exportSubtree(ctx context.Context, node *confluence.PageTree, dir string) error {
	childDir := writer.ChildDir(dir, &processor.ProcessedPage{Filename: processor.SanitizeFilename(node.Page.Title)})

	processed, err := processor.Process(ctx, e.client, node.Page, e.procOpts)
	if err != nil {
		e.failed.Add(1)
		logrus.WithFields(logrus.Fields{
			"page":  node.Page.ID,
			"title": node.Page.Title,
		}).WithError(err).Warn("skipping page")
		e.bar.Increment()
	} else {
		if !treeOpts.DryRun {
			if _, err := writer.WritePage(processed, dir, e.format, treeOpts.Overwrite); err != nil {
				return err
			}
		}
		childDir = writer.ChildDir(dir, processed)
		e.bar.Increment()
	}

	if len(node.Children) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(treeOpts.Parallel)
	for _, child := range node.Children {
		g.Go(func() error {
			return e.exportSubtree(ctx, child, childDir)
		})
	}
	return g.Wait()
}
