// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// SessionList displays chat history in a navigable sidebar.
type SessionList struct {
	sessions  []domain.ChatSession
	selected  int
	currentID string
	styles    *styles.Styles
	width     int
	height    int
}

// NewSessionList creates a new session list component.
func NewSessionList(s *styles.Styles) *SessionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SessionList{
		styles: s,
		width:  28,
		height: 10,
	}
}

// Init initialises the session list.
func (l *SessionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the session list.
func (l *SessionList) View() string {
	header := l.styles.Subtitle.Render(fmt.Sprintf("Chats (%d)", len(l.sessions)))
	if len(l.sessions) == 0 {
		return header + "\n\n" + l.styles.Muted.Render("No chats yet")
	}

	lines := make([]string, 0, len(l.sessions)+2)
	lines = append(lines, header, "")

	// Each session takes two lines
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.sessions) {
		end = len(l.sessions)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderSession(i, &l.sessions[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *SessionList) renderSession(index int, session *domain.ChatSession) string {
	marker := "  "
	if session.ID == l.currentID {
		marker = "* "
	}

	maxTitleLen := l.width - 4
	if maxTitleLen < 8 {
		maxTitleLen = 8
	}
	title := truncate(session.Title, maxTitleLen)

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s", marker, maxTitleLen, title))
	} else {
		titleLine = l.styles.Normal.Render(marker + title)
	}

	meta := fmt.Sprintf("    %s · %d msgs", session.LastMessage.Local().Format("Jan 2 15:04"), len(session.Messages))
	return titleLine + "\n" + l.styles.Muted.Render(meta)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetSessions updates the list and keeps the selection on the current session.
func (l *SessionList) SetSessions(sessions []domain.ChatSession, currentID string) {
	l.sessions = sessions
	l.currentID = currentID
	l.selected = 0
	for i := range sessions {
		if sessions[i].ID == currentID {
			l.selected = i
			break
		}
	}
}

// Sessions returns the listed sessions.
func (l *SessionList) Sessions() []domain.ChatSession {
	return l.sessions
}

// CurrentID returns the id marked as current.
func (l *SessionList) CurrentID() string {
	return l.currentID
}

// Selected returns the index of the selected session.
func (l *SessionList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *SessionList) SetSelected(index int) {
	if index >= 0 && index < len(l.sessions) {
		l.selected = index
	}
}

// SelectedSession returns the highlighted session, or nil if none.
func (l *SessionList) SelectedSession() *domain.ChatSession {
	if len(l.sessions) == 0 || l.selected < 0 || l.selected >= len(l.sessions) {
		return nil
	}
	return &l.sessions[l.selected]
}

// MoveUp moves selection up.
func (l *SessionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SessionList) MoveDown() {
	if l.selected < len(l.sessions)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SessionList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *SessionList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *SessionList) Height() int {
	return l.height
}

// Count returns the number of sessions.
func (l *SessionList) Count() int {
	return len(l.sessions)
}

// IsEmpty returns whether the list is empty.
func (l *SessionList) IsEmpty() bool {
	return len(l.sessions) == 0
}
