package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for vfw.

The TUI lets you chat with the IPC and BNS assistants, record or attach
voice messages, browse your chat history and change settings.

Controls:
  enter    - Send / Select
  ctrl+r   - Start or stop recording
  ctrl+o   - Attach an audio file
  ctrl+n   - New chat
  tab      - Focus chat history
  esc      - Back / Cancel
  ?        - Help
  ctrl+c   - Quit`,
	Args:        cobra.NoArgs,
	Annotations: protected(),
	RunE:        runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the configured services.
func tuiPorts() *tui.Ports {
	return &tui.Ports{
		Auth:      authService,
		Sessions:  sessionService,
		Chat:      chatService,
		Settings:  settingsService,
		Dashboard: dashboardService,
		Playback:  playbackService,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tuiPorts()

	if watchFunc != nil {
		w, err := watchFunc(cmd.Context())
		if err != nil {
			logger.Warn("live refresh disabled: %v", err)
		} else {
			defer func() {
				if err := w.Close(); err != nil {
					logger.Debug("closing watcher: %v", err)
				}
			}()
			ports.Changes = w.Events()
		}
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
