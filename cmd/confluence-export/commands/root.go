package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "confluence-export",
	Short: "Export Confluence pages to Markdown or AsciiDoc",
	Long: `Confluence page exporter

Export Confluence Cloud pages, page trees, images, and attachments into a
local directory as Markdown or AsciiDoc.

Examples:
  confluence-export page https://example.atlassian.net/wiki/spaces/TEAM/pages/12345/Title
  confluence-export tree https://example.atlassian.net/wiki/spaces/TEAM/pages/12345/Title --depth 2
  confluence-export ls 12345 --base-url https://example.atlassian.net
  confluence-export auth test`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case rootVerbosity >= 2:
			logrus.SetLevel(logrus.TraceLevel)
		case rootVerbosity == 1:
			logrus.SetLevel(logrus.DebugLevel)
		default:
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

var rootVerbosity int

func init() {
	rootCmd.PersistentFlags().CountVarP(&rootVerbosity, "verbose", "v", "increase log verbosity (-v, -vv)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
