// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
)

// Item identifies a row of the settings list.
type Item int

const (
	ItemAPIURL Item = iota
	ItemTimeout
	ItemTheme
	ItemReset
)

var items = []Item{ItemAPIURL, ItemTimeout, ItemTheme, ItemReset}

// Label returns the row label.
func (i Item) Label() string {
	switch i {
	case ItemAPIURL:
		return "API URL"
	case ItemTimeout:
		return "Timeout"
	case ItemTheme:
		return "Theme"
	case ItemReset:
		return "Reset to defaults"
	default:
		return ""
	}
}

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

var errNoSettings = errors.New("settings service not available")

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	err      error
	notice   string

	selected int
	editing  bool
	input    textinput.Model

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           ti,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	v.editing = false
	v.notice = ""
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: errNoSettings}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved."
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(items)-1 {
			v.selected++
		}
	case keyEnter:
		return v.activate(items[v.selected])
	}
	return v, nil
}

func (v *View) activate(item Item) (*View, tea.Cmd) {
	if v.settings == nil || v.settingsService == nil {
		return v, nil
	}
	v.notice = ""

	switch item {
	case ItemAPIURL:
		v.beginEdit(v.settings.APIURL, "http://localhost:5000")
		return v, v.input.Focus()
	case ItemTimeout:
		v.beginEdit(fmt.Sprintf("%d", int(v.settings.Timeout.Seconds())), "seconds or a duration like 2m")
		return v, v.input.Focus()
	case ItemTheme:
		dark := !v.settings.DarkMode
		return v, v.save(func(s driving.SettingsService) error {
			return s.SetDarkMode(dark)
		})
	case ItemReset:
		return v, v.save(func(s driving.SettingsService) error {
			defaults := s.GetDefaults()
			return s.Save(&defaults)
		})
	}
	return v, nil
}

func (v *View) beginEdit(value, placeholder string) {
	v.editing = true
	v.input.SetValue(value)
	v.input.Placeholder = placeholder
	v.input.CursorEnd()
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case keyEnter:
		value := v.input.Value()
		v.editing = false
		v.input.Blur()
		return v, v.commit(items[v.selected], value)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) commit(item Item, value string) tea.Cmd {
	switch item {
	case ItemAPIURL:
		return v.save(func(s driving.SettingsService) error {
			return s.SetAPIURL(value)
		})
	case ItemTimeout:
		timeout, err := domain.ParseTimeout(value)
		if err != nil {
			v.err = err
			return nil
		}
		return v.save(func(s driving.SettingsService) error {
			settings, err := s.Get()
			if err != nil {
				return err
			}
			settings.Timeout = timeout
			return s.Save(settings)
		})
	}
	return nil
}

// save runs fn against the settings service and reports the outcome.
func (v *View) save(fn func(driving.SettingsService) error) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		return messages.SettingsSaved{Err: fn(svc)}
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := indicator + item.Label()
		if value := v.valueOf(item); value != "" {
			line += ": " + value
		}

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if v.editing {
		b.WriteString("\n")
		b.WriteString(v.styles.InputField.Render(v.input.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) valueOf(item Item) string {
	switch item {
	case ItemAPIURL:
		return v.settings.APIURL
	case ItemTimeout:
		return domain.DescribeTimeout(v.settings.Timeout)
	case ItemTheme:
		return domain.ThemeName(v.settings.DarkMode)
	default:
		return ""
	}
}

func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	if width > 20 {
		v.input.Width = width - 10
	}
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Editing reports whether a value is being typed.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
