package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the backend URL, request timeout and theme.

Settings are stored in ~/.vfw/config.toml. VFW_API_URL, VFW_TIMEOUT and
VFW_DARK_MODE override the stored values for a single run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsAPIURLCmd = &cobra.Command{
	Use:     "api-url <url>",
	Short:   "Set the backend base URL",
	Example: "  vfw settings api-url https://vfw.example.org",
	Args:    cobra.ExactArgs(1),
	RunE:    runSettingsAPIURL,
}

var settingsTimeoutCmd = &cobra.Command{
	Use:   "timeout <duration>",
	Short: "Set the request timeout",
	Long: `Set how long to wait for the backend. Accepts Go durations such as
90s or 2m, or a number of seconds. 0 waits indefinitely.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsTimeout,
}

var settingsThemeCmd = &cobra.Command{
	Use:       "theme <dark|light>",
	Short:     "Set the TUI theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dark", "light"},
	RunE:      runSettingsTheme,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAPIURLCmd)
	settingsCmd.AddCommand(settingsTimeoutCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	printBold(out, "Current Settings")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  API URL:  %s\n", settings.APIURL)
	fmt.Fprintf(out, "  Timeout:  %s\n", domain.DescribeTimeout(settings.Timeout))
	fmt.Fprintf(out, "  Theme:    %s\n", domain.ThemeName(settings.DarkMode))

	if authService != nil {
		if creds := authService.Current(); creds.IsAuthenticated() {
			fmt.Fprintf(out, "  Account:  %s (token %s)\n", creds.DisplayName(), maskToken(creds.Token))
		} else {
			fmt.Fprintln(out, "  Account:  (signed out)")
		}
	}
	return nil
}

func runSettingsAPIURL(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetAPIURL(args[0]); err != nil {
		return fmt.Errorf("failed to set API URL: %w", err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), "API URL set to %s", settings.APIURL)
	return nil
}

func runSettingsTimeout(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	timeout, err := domain.ParseTimeout(args[0])
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Timeout = timeout
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), "Timeout set to %s", domain.DescribeTimeout(timeout))
	return nil
}

func runSettingsTheme(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	var dark bool
	switch strings.ToLower(args[0]) {
	case "dark":
		dark = true
	case "light":
	default:
		return fmt.Errorf("unknown theme %q (use dark or light)", args[0])
	}
	if err := settingsService.SetDarkMode(dark); err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), "Theme set to %s", domain.ThemeName(dark))
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), "Settings restored to defaults")
	return nil
}

// maskToken shows only the ends of a token.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
