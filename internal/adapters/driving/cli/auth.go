package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Flags for login and register.
var (
	authName     string
	authEmail    string
	authPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Voice for the Weak",
	Long: `Sign in with your email and password.

Your token is stored in ~/.vfw/config.toml and attached to every request
until you run 'vfw logout'. Missing values are prompted for.`,
	Example: `  vfw login
  vfw login --email asha@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Voice for the Weak account",
	Long: `Create an account and sign in with it.

Missing values are prompted for.`,
	Example: `  vfw register
  vfw register --name Asha --email asha@example.com`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "account password (prompted when omitted)")

	registerCmd.Flags().StringVarP(&authName, "name", "n", "", "your name")
	registerCmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	registerCmd.Flags().StringVar(&authPassword, "password", "", "account password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	defer resetAuthFlags()

	if err := promptInput(&authEmail, "Email:", "", true); err != nil {
		return fmt.Errorf("read email: %w", err)
	}
	if err := promptPassword(&authPassword, "Password:"); err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	creds, err := authService.Login(cmd.Context(), authEmail, authPassword)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Login successful. Welcome, %s!", creds.DisplayName())
	printInfo(out, "Try 'vfw dashboard', 'vfw ipc send' or 'vfw tui'.")
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	defer resetAuthFlags()

	if err := promptInput(&authName, "Name:", "", true); err != nil {
		return fmt.Errorf("read name: %w", err)
	}
	if err := promptInput(&authEmail, "Email:", "", true); err != nil {
		return fmt.Errorf("read email: %w", err)
	}
	if err := promptPassword(&authPassword, "Password:"); err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	creds, message, err := authService.Register(cmd.Context(), authName, authEmail, authPassword)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if message == "" {
		message = "Registration successful."
	}
	printSuccess(out, "%s", message)
	if creds.IsAuthenticated() {
		printInfo(out, "Signed in as %s.", creds.DisplayName())
	} else {
		printInfo(out, "Run 'vfw login' to sign in.")
	}
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if err := authService.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), "Signed out.")
	return nil
}

// resetAuthFlags clears flag values so repeated executions in one process
// start clean.
func resetAuthFlags() {
	authName, authEmail, authPassword = "", "", ""
}
