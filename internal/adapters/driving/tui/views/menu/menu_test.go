package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func readyView() *View {
	v := NewView(nil, nil)
	v.SetDimensions(100, 30)
	return v
}

func TestItems(t *testing.T) {
	items := Items()

	require.Len(t, items, 6)
	assert.Equal(t, domain.AssistantIPC, items[0].Kind)
	assert.Equal(t, domain.AssistantBNS, items[1].Kind)
	assert.Equal(t, "Ask about BNS sections by voice or text", items[1].Detail)
	assert.True(t, items[5].Quit)
}

func TestNewView_Defaults(t *testing.T) {
	view := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap())

	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
	assert.Equal(t, "Initialising...", view.View())

	nilView := NewView(nil, nil)
	assert.NotNil(t, nilView.styles)
	assert.NotNil(t, nilView.keymap)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Same(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
	assert.Equal(t, 50, view.height)
}

func TestView_Navigation_Wraps(t *testing.T) {
	view := readyView()

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 5, view.Selected())

	view.Update(runes("j"))
	assert.Equal(t, 0, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	view.Update(runes("j"))
	view.Update(runes("k"))
	assert.Equal(t, 1, view.Selected())
}

func TestView_Select(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		view     messages.ViewType
		kind     domain.AssistantKind
	}{
		{"ipc chat", 0, messages.ViewChat, domain.AssistantIPC},
		{"bns chat", 1, messages.ViewChat, domain.AssistantBNS},
		{"dashboard", 2, messages.ViewDashboard, ""},
		{"settings", 3, messages.ViewSettings, ""},
		{"help", 4, messages.ViewHelp, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := readyView()
			view.selected = tt.selected

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.NotNil(t, cmd)
			changed, ok := cmd().(messages.ViewChanged)
			require.True(t, ok)
			assert.Equal(t, tt.view, changed.View)
			assert.Equal(t, tt.kind, changed.Kind)
		})
	}
}

func TestView_DigitShortcut(t *testing.T) {
	view := readyView()

	_, cmd := view.Update(runes("2"))

	require.NotNil(t, cmd)
	assert.Equal(t, 1, view.Selected())
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChat, Kind: domain.AssistantBNS}, cmd())
}

func TestView_DigitOutOfRange(t *testing.T) {
	view := readyView()

	_, cmd := view.Update(runes("9"))

	assert.Nil(t, cmd)
	assert.Equal(t, 0, view.Selected())
}

func TestView_Quit(t *testing.T) {
	t.Run("quit item", func(t *testing.T) {
		view := readyView()
		view.selected = 5

		_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("q key", func(t *testing.T) {
		_, cmd := readyView().Update(runes("q"))

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("digit for quit", func(t *testing.T) {
		_, cmd := readyView().Update(runes("6"))

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestView_Render(t *testing.T) {
	view := readyView()

	out := view.View()

	assert.Contains(t, out, "Voice for the Weak")
	assert.Contains(t, out, "Legal assistance in your language")
	assert.Contains(t, out, "1. IPC Legal Assistant")
	assert.Contains(t, out, "2. BNS Legal Assistant")
	assert.Contains(t, out, "6. Quit")
	assert.Contains(t, out, "Ask about IPC sections")
	assert.NotContains(t, out, "Ask about BNS sections")
	assert.Contains(t, out, "[enter] select")
	assert.Contains(t, out, "[q] quit")
}

func TestView_SetUser(t *testing.T) {
	view := readyView()

	view.SetUser("Asha")
	assert.Contains(t, view.View(), "Signed in as Asha")

	view.SetUser("")
	assert.Contains(t, view.View(), "Legal assistance in your language")
}
