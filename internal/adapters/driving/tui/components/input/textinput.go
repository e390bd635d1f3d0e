// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
)

// Mode selects what the composer is collecting.
type Mode int

const (
	// ModeMessage composes a chat message.
	ModeMessage Mode = iota
	// ModeAttach collects an audio file path.
	ModeAttach
	// ModeRename collects a new session title.
	ModeRename
	// ModeEdit revises an earlier user message.
	ModeEdit
)

// Label returns the prompt shown before the input.
func (m Mode) Label() string {
	switch m {
	case ModeAttach:
		return "Audio file: "
	case ModeRename:
		return "Title: "
	case ModeEdit:
		return "Edit: "
	default:
		return "Message: "
	}
}

// Placeholder returns the hint shown in an empty input.
func (m Mode) Placeholder() string {
	switch m {
	case ModeAttach:
		return "path to a .wav, .mp3 or .webm file"
	case ModeRename:
		return "new chat title"
	case ModeEdit:
		return "revised message"
	default:
		return "Describe your situation..."
	}
}

// Composer wraps a bubbles textinput with chat-specific styling.
type Composer struct {
	textinput textinput.Model
	styles    *styles.Styles
	mode      Mode
	width     int
}

// NewComposer creates a new composer component.
func NewComposer(s *styles.Styles) *Composer {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = ModeMessage.Placeholder()
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 50

	return &Composer{
		textinput: ti,
		styles:    s,
		mode:      ModeMessage,
		width:     50,
	}
}

// Init initialises the composer.
func (c *Composer) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (c *Composer) Update(msg tea.Msg) (*Composer, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the composer.
func (c *Composer) View() string {
	label := c.styles.Title.Render(c.mode.Label())
	field := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// SetMode switches what the composer collects and clears it.
func (c *Composer) SetMode(mode Mode) {
	c.mode = mode
	c.textinput.Reset()
	c.textinput.Placeholder = mode.Placeholder()
}

// Mode returns what the composer is collecting.
func (c *Composer) Mode() Mode {
	return c.mode
}

// Value returns the current input value.
func (c *Composer) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value.
func (c *Composer) SetValue(value string) {
	c.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (c *Composer) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *Composer) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *Composer) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *Composer) SetWidth(width int) {
	c.width = width
	// Account for label and padding
	inputWidth := width - 18
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.textinput.Width = inputWidth
}

// Width returns the current width.
func (c *Composer) Width() int {
	return c.width
}

// Reset clears the input and returns to message mode.
func (c *Composer) Reset() {
	c.SetMode(ModeMessage)
}
