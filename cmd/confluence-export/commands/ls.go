package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okibox/confluence-export/internal/confluence"
)

var lsCmd = &cobra.Command{
	Use:   "ls <page-url | page-id>",
	Short: "List a page tree without exporting it",
	Long: `Print the hierarchy beneath a Confluence page as a tree.

Useful for checking what a tree export would fetch before running it.

Example:
  confluence-export ls 12345 --base-url https://example.atlassian.net --depth 2`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

var lsOpts struct {
	authOptions
	Depth int
	IDs   bool
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsOpts.authOptions.InitFlags(lsCmd)
	lsCmd.Flags().IntVar(&lsOpts.Depth, "depth", confluence.NoDepthLimit, "Maximum descent depth (-1 for unlimited)")
	lsCmd.Flags().BoolVar(&lsOpts.IDs, "ids", false, "Show page IDs next to titles")
}

func runLs(cmd *cobra.Command, args []string) error {
	baseURL, pageID, err := resolveTarget(args[0], &lsOpts.authOptions)
	if err != nil {
		return err
	}
	client, _, err := newClient(&lsOpts.authOptions, baseURL, nil)
	if err != nil {
		return err
	}

	tree, err := confluence.BuildPageTree(cmd.Context(), client, pageID, lsOpts.Depth)
	if err != nil {
		return err
	}

	printTree(tree, "", true, true)
	fmt.Printf("\n%d pages\n", tree.Count())
	return nil
}

func printTree(node *confluence.PageTree, prefix string, isLast, isRoot bool) {
	label := node.Page.Title
	if lsOpts.IDs {
		label = fmt.Sprintf("%s %s", label, color.New(color.Faint).Sprintf("(%s)", node.Page.ID))
	}

	if isRoot {
		fmt.Println(label)
	} else {
		connector := "├── "
		if isLast {
			connector = "└── "
		}
		fmt.Println(prefix + connector + label)
	}

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for i, child := range node.Children {
		printTree(child, childPrefix, i == len(node.Children)-1, false)
	}
}
