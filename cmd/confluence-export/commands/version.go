package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okibox/confluence-export/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of confluence-export",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case versionShort:
			fmt.Println(version.Short())
		case versionJSON:
			out, err := version.JSON()
			if err != nil {
				return err
			}
			fmt.Println(out)
		default:
			fmt.Println(version.Info())
		}
		return nil
	},
}

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")

	rootCmd.AddCommand(versionCmd)
}
