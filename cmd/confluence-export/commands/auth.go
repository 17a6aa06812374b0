package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okibox/confluence-export/internal/credentials"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect and verify Confluence credentials",
}

var authTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify credentials against the Confluence API",
	Long: `Resolve credentials and make an authenticated request to verify them.

Example:
  confluence-export auth test --base-url https://example.atlassian.net`,
	Args: cobra.NoArgs,
	RunE: runAuthTest,
}

var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which credentials would be used, with the token masked",
	Args:  cobra.NoArgs,
	RunE:  runAuthShow,
}

var authOpts authOptions

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authTestCmd)
	authCmd.AddCommand(authShowCmd)

	authOpts.InitFlags(authTestCmd)
	authOpts.InitFlags(authShowCmd)
}

func runAuthTest(cmd *cobra.Command, _ []string) error {
	client, creds, err := newClient(&authOpts, "", nil)
	if err != nil {
		return err
	}

	user, err := client.CurrentUser(cmd.Context())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	color.New(color.FgGreen).Printf("Authenticated against %s\n", creds.BaseURL)
	fmt.Printf("  account: %s", user.DisplayName)
	if user.Email != "" {
		fmt.Printf(" <%s>", user.Email)
	}
	fmt.Println()
	fmt.Printf("  id:      %s\n", user.AccountID)
	return nil
}

func runAuthShow(_ *cobra.Command, _ []string) error {
	creds, err := credentials.Resolve(authOpts.BaseURL, authOpts.Email, authOpts.APIToken)
	if err != nil {
		return err
	}

	fmt.Printf("base URL:  %s\n", creds.BaseURL)
	fmt.Printf("email:     %s\n", creds.Email)
	fmt.Printf("api token: %s\n", maskToken(creds.APIToken))
	fmt.Printf("source:    %s\n", creds.Source)
	return nil
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
