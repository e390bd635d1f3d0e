// Package cli provides the vfw command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationAuth marks commands that need a signed-in user.
const annotationAuth = "vfw/requires-auth"

// Services holds the driving ports the commands call.
type Services struct {
	Auth      driving.AuthService
	Sessions  driving.SessionService
	Chat      driving.ChatService
	Schemes   driving.SchemeService
	Settings  driving.SettingsService
	Dashboard driving.DashboardService
	Playback  driving.PlaybackService

	// Watch opens a watcher over the local data for live TUI refresh.
	// Optional.
	Watch WatchFunc
}

// ChangeWatcher reports changes made to local data by other processes.
type ChangeWatcher interface {
	Events() <-chan struct{}
	Close() error
}

// WatchFunc opens a ChangeWatcher bound to ctx.
type WatchFunc func(ctx context.Context) (ChangeWatcher, error)

// Services used by commands. Nil until SetServices is called.
var (
	authService      driving.AuthService
	sessionService   driving.SessionService
	chatService      driving.ChatService
	schemeService    driving.SchemeService
	settingsService  driving.SettingsService
	dashboardService driving.DashboardService
	playbackService  driving.PlaybackService
	watchFunc        WatchFunc
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vfw",
	Short: "Voice for the Weak legal assistant client",
	Long: `vfw is a terminal client for the Voice for the Weak legal assistant.

Ask the IPC and BNS assistants about your situation by sending a voice
recording, optionally with your details, and get the matching legal
sections back. Chat history is kept locally per assistant.

Sign in first with 'vfw login' or create an account with 'vfw register'.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices wires the driving ports into the commands.
func SetServices(s Services) {
	authService = s.Auth
	sessionService = s.Sessions
	chatService = s.Chat
	schemeService = s.Schemes
	settingsService = s.Settings
	dashboardService = s.Dashboard
	playbackService = s.Playback
	watchFunc = s.Watch
}

// SetVersion sets the version reported by 'vfw version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func preRun(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	return requireAuth(cmd)
}

// requireAuth rejects protected commands when no token is stored.
func requireAuth(cmd *cobra.Command) error {
	if !requiresAuth(cmd) {
		return nil
	}
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if _, err := authService.RequireAuth(); err != nil {
		return fmt.Errorf("%w: run 'vfw login' first", err)
	}
	return nil
}

func requiresAuth(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationAuth] == "true" {
			return true
		}
	}
	return false
}

// protected returns annotations marking a command as requiring sign-in.
func protected() map[string]string {
	return map[string]string{annotationAuth: "true"}
}
