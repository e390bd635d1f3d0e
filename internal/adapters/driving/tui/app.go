package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/views/dashboard"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles is shared by every view so theme changes apply everywhere.
	styles *styles.Styles

	keymap *keymap.KeyMap

	// menuView is the main navigation menu.
	menuView *menu.View

	// chatView hosts both legal assistants.
	chatView *chat.View

	// dashboardView shows the signed-in user's activity.
	dashboardView *dashboard.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType


	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		keymap:      keymap.DefaultKeyMap(),
		currentView: messages.ViewMenu,
	}

	var current *domain.AppSettings
	if ports.Settings != nil {
		if loaded, err := ports.Settings.Get(); err == nil {
			current = loaded
		}
	}
	a.styles = styles.ForDarkMode(current != nil && current.DarkMode)

	a.menuView = menu.NewView(a.styles, a.keymap)
	a.chatView = chat.NewView(a.styles, a.keymap, ports.Chat, ports.Sessions, ports.Playback)
	a.dashboardView = dashboard.NewView(a.styles, ports.Dashboard)
	a.settingsView = settings.NewView(a.styles, ports.Settings)
	if current != nil {
		a.chatView.SetDisplay(current.APIURL, current.DarkMode)
	}

	if ports.Auth != nil {
		if creds := ports.Auth.Current(); creds != nil {
			a.menuView.SetUser(creds.DisplayName())
		}
	}

	return a, nil
}

// WithContext sets the context for the app and its request-making views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.dashboardView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("vfw - Voice for the Weak"),
		a.loadSettings(),
		a.waitForChange(),
	)
}

// loadSettings fetches settings so the theme and API base apply on start.
func (a *App) loadSettings() tea.Cmd {
	svc := a.ports.Settings
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		current, err := svc.Get()
		return messages.SettingsLoaded{Settings: current, Err: err}
	}
}

// waitForChange blocks until the store watcher fires, then re-arms.
func (a *App) waitForChange() tea.Cmd {
	ch := a.ports.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.DataChanged{}
	}
}

// applySettings switches the shared styles and the chat display.
func (a *App) applySettings(current *domain.AppSettings) {
	if current == nil {
		return
	}
	if current.DarkMode != a.styles.Dark() {
		*a.styles = *styles.ForDarkMode(current.DarkMode)
	}
	a.chatView.SetDisplay(current.APIURL, current.DarkMode)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		a.err = nil
		switch msg.View {
		case messages.ViewChat:
			return a, a.chatView.SetKind(msg.Kind)
		case messages.ViewDashboard:
			return a, a.dashboardView.Init()
		case messages.ViewSettings:
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			if a.ports.Auth != nil {
				if creds := a.ports.Auth.Current(); creds != nil {
					a.menuView.SetUser(creds.DisplayName())
				}
			}
		}
		return a, nil

	case messages.SessionsLoaded, messages.ReplyReceived, messages.SessionChanged,
		messages.RecordingStarted, messages.RecordingStopped,
		messages.AttachmentLoaded, messages.PlaybackFinished, spinner.TickMsg:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.DashboardLoaded:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		if msg.Err == nil {
			a.applySettings(msg.Settings)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.DataChanged:
		cmds := []tea.Cmd{a.waitForChange()}
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
			cmds = append(cmds, cmd)
		case messages.ViewDashboard:
			a.dashboardView, cmd = a.dashboardView.Update(msg)
			cmds = append(cmds, cmd)
		case messages.ViewMenu, messages.ViewSettings, messages.ViewHelp:
		}
		return a, tea.Batch(cmds...)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blinks and the like) to the active view.
	return a, a.forward(msg)
}

// forward routes a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDashboard:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc", "q", "?":
				a.currentView = messages.ViewMenu
			}
		}
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewDashboard:
		body = a.dashboardView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	if a.err != nil {
		body += "\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return body
}

// viewHelp renders the key bindings grouped by area.
func (a *App) viewHelp() string {
	h := help.New()
	h.Width = a.width

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(h.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("Menu: j/k to move, enter to open. Dashboard: 1/2 open a chat, r refreshes."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Dark reports whether the dark theme is active.
func (a *App) Dark() bool {
	return a.styles.Dark()
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.dashboardView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
