// Package dashboard provides the signed-in overview view for the TUI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
)

var errNoDashboard = errors.New("dashboard service not available")

// View shows the signed-in user and per-assistant history.
type View struct {
	styles    *styles.Styles
	dashboard driving.DashboardService
	ctx       context.Context

	summary *domain.DashboardSummary
	err     error
	loading bool

	width  int
	height int
	ready  bool
}

// NewView creates a new dashboard view.
func NewView(s *styles.Styles, dashboard driving.DashboardService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		dashboard: dashboard,
		ctx:       context.Background(),
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the summary.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.dashboard == nil {
			return messages.DashboardLoaded{Err: errNoDashboard}
		}
		summary, err := v.dashboard.Summary(ctx)
		return messages.DashboardLoaded{Summary: summary, Err: err}
	}
}

// Update handles messages for the dashboard view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DashboardLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.summary = msg.Summary
		}
		return v, nil

	case messages.DataChanged:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return v, changeView(messages.ViewChanged{View: messages.ViewMenu})
		case "r":
			v.loading = true
			return v, v.load()
		case "1", "i":
			return v, changeView(messages.ViewChanged{View: messages.ViewChat, Kind: domain.AssistantIPC})
		case "2", "b":
			return v, changeView(messages.ViewChanged{View: messages.ViewChat, Kind: domain.AssistantBNS})
		}
	}
	return v, nil
}

func changeView(msg messages.ViewChanged) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the dashboard.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Dashboard"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.summary == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	default:
		v.renderSummary(&b)
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[1] IPC chat  [2] BNS chat  [r] Refresh  [esc] Back"))
	return b.String()
}

func (v *View) renderSummary(b *strings.Builder) {
	user := v.summary.User
	b.WriteString(v.styles.Subtitle.Render("Welcome, " + user.DisplayName()))
	b.WriteString("\n")
	if user.Email != "" {
		b.WriteString(v.styles.Muted.Render("Signed in as " + user.Email))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, s := range v.summary.Sessions {
		b.WriteString(v.styles.Label.Render(fmt.Sprintf("[%d] %s", i+1, s.Kind.Description())))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("    Conversations: %d\n", s.Count))
		if s.RecentTitle != "" {
			b.WriteString(fmt.Sprintf("    Most recent:   %s\n", s.RecentTitle))
		}
		b.WriteString("\n")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Summary returns the loaded summary.
func (v *View) Summary() *domain.DashboardSummary {
	return v.summary
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
