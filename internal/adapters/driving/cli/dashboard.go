package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

var dashboardCmd = &cobra.Command{
	Use:         "dashboard",
	Short:       "Show your account and recent activity",
	Args:        cobra.NoArgs,
	Annotations: protected(),
	RunE:        runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	if dashboardService == nil {
		return errors.New("dashboard service not configured")
	}

	summary, err := dashboardService.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}

	out := cmd.OutOrStdout()
	printBold(out, "Welcome, %s", summary.User.DisplayName())
	if summary.User.Email != "" {
		fmt.Fprintf(out, "Signed in as %s\n", summary.User.Email)
	}
	fmt.Fprintln(out)

	for _, s := range summary.Sessions {
		printBold(out, "%s", s.Kind.Description())
		fmt.Fprintf(out, "  Conversations: %d\n", s.Count)
		if s.RecentTitle != "" {
			fmt.Fprintf(out, "  Most recent:   %s\n", s.RecentTitle)
		}
		fmt.Fprintln(out)
	}

	printBold(out, "What you can do")
	for _, kind := range domain.AllAssistantKinds() {
		fmt.Fprintf(out, "  vfw %s send --audio <file>   Ask the %s\n", kind, kind.Description())
	}
	fmt.Fprintln(out, "  vfw schemes recommend          Find government schemes for you")
	fmt.Fprintln(out, "  vfw tui                        Open the interactive chat")
	return nil
}
