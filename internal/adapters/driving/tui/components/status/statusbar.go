// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateSending   State = "sending"
	StateRecording State = "recording"
	StatePlaying   State = "playing"
	StateInfo      State = "info"
	StateError     State = "error"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	state        State
	message      string
	sessionCount int
	width        int
	since        time.Time
	now          func() time.Time
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
		now:    time.Now,
	}
}

// SetClock replaces the clock used for elapsed times.
func (s *Bar) SetClock(now func() time.Time) {
	s.now = now
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateSending:
		return s.styles.Muted.Render(s.messageOr("Waiting for the assistant...") + s.elapsed())
	case StateRecording:
		stop := s.keymap.Record.Help().Key
		return s.styles.Warning.Render(s.messageOr("Recording... press "+stop+" to stop") + s.elapsed())
	case StatePlaying:
		return s.styles.Muted.Render(s.messageOr("Playing audio..."))
	case StateInfo:
		return s.styles.Success.Render(s.message)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
		if s.sessionCount == 1 {
			return s.styles.Normal.Render("1 session")
		}
		if s.sessionCount > 1 {
			return s.styles.Normal.Render(fmt.Sprintf("%d sessions", s.sessionCount))
		}
	}
	return s.styles.Muted.Render("Ready")
}

// elapsed formats the time spent in the current state as " m:ss".
func (s *Bar) elapsed() string {
	if s.since.IsZero() {
		return ""
	}
	d := s.now().Sub(s.since).Truncate(time.Second)
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf(" %d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (s *Bar) messageOr(fallback string) string {
	if s.message != "" {
		return s.message
	}
	return fallback
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding

	switch s.state {
	case StateSending:
		bindings = s.keymap.BusyHelp()
	case StateRecording:
		bindings = []key.Binding{s.keymap.Record}
	default:
		bindings = s.keymap.ChatHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state. Entering a new state restarts the
// elapsed timer shown while sending or recording.
func (s *Bar) SetState(state State) {
	if state != s.state {
		s.since = s.now()
	}
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetError switches to the error state with the error's text.
func (s *Bar) SetError(err error) {
	s.SetState(StateError)
	s.message = err.Error()
}

// SetInfo shows a transient confirmation.
func (s *Bar) SetInfo(message string) {
	s.SetState(StateInfo)
	s.message = message
}

// SetSessionCount sets the number of stored sessions.
func (s *Bar) SetSessionCount(count int) {
	s.sessionCount = count
}

// SessionCount returns the number of stored sessions.
func (s *Bar) SessionCount() int {
	return s.sessionCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.since = time.Time{}
}
