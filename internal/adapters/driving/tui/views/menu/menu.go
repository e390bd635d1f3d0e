// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// Item is one menu entry. Selecting it either changes view or quits.
type Item struct {
	Label  string
	Detail string
	View   messages.ViewType
	Kind   domain.AssistantKind
	Quit   bool
}

// View is the landing screen listing the assistants and other views.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	user     string
	selected int
	width    int
	height   int
	ready    bool
}

// Items returns the menu entries in display order.
func Items() []Item {
	items := make([]Item, 0, 6)
	for _, kind := range domain.AllAssistantKinds() {
		items = append(items, Item{
			Label:  kind.Description(),
			Detail: fmt.Sprintf("Ask about %s sections by voice or text", strings.ToUpper(kind.String())),
			View:   messages.ViewChat,
			Kind:   kind,
		})
	}
	return append(items,
		Item{Label: "Dashboard", Detail: "Your account and recent conversations", View: messages.ViewDashboard},
		Item{Label: "Settings", Detail: "Backend address, timeout and theme", View: messages.ViewSettings},
		Item{Label: "Help", Detail: "Key bindings", View: messages.ViewHelp},
		Item{Label: "Quit", Quit: true},
	)
}

// NewView creates a menu view. Nil styles or keymap fall back to defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		items:  Items(),
		width:  80,
		height: 24,
	}
}

func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and emits ViewChanged on selection.
// Digits 1-9 jump straight to an entry.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keymap.Up):
			v.selected = (v.selected - 1 + len(v.items)) % len(v.items)
		case keymap.Matches(k, v.keymap.Down):
			v.selected = (v.selected + 1) % len(v.items)
		case keymap.Matches(k, v.keymap.Select):
			return v, v.choose(v.selected)
		case keymap.Matches(k, v.keymap.Quit):
			return v, tea.Quit
		case len(k) == 1 && k[0] >= '1' && k[0] <= '9':
			if i := int(k[0] - '1'); i < len(v.items) {
				v.selected = i
				return v, v.choose(i)
			}
		}
	}
	return v, nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View, Kind: item.Kind}
	}
}

func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Voice for the Weak"))
	b.WriteString("\n\n")

	subtitle := "Legal assistance in your language"
	if v.user != "" {
		subtitle = "Signed in as " + v.user
	}
	b.WriteString(v.styles.Muted.Render(subtitle))
	b.WriteString("\n\n")

	for i, item := range v.items {
		line := fmt.Sprintf("%d. %s", i+1, item.Label)
		if i == v.selected {
			b.WriteString("> " + v.styles.Subtitle.Render(line))
			if item.Detail != "" {
				b.WriteString("  " + v.styles.Muted.Render(item.Detail))
			}
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(helpLine(v.keymap.Up, v.keymap.Down, v.keymap.Select, v.keymap.Quit)))
	return b.String()
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}

// SetUser shows name in the subtitle. Empty restores the tagline.
func (v *View) SetUser(name string) {
	v.user = name
}

func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor index.
func (v *View) Selected() int {
	return v.selected
}
