// Package chat provides the assistant conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
)

const (
	sidebarWidth    = 30
	minSidebarWidth = 70
)

// View is the conversation view for one assistant.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	chat     driving.ChatService
	sessions driving.SessionService
	playback driving.PlaybackService
	ctx      context.Context

	kind    domain.AssistantKind
	session domain.ChatSession

	sidebar    *list.SessionList
	transcript viewport.Model
	spinner    spinner.Model
	composer   *input.Composer
	status     *status.Bar

	sidebarFocused bool

	// busy is set while a request is in flight; cancel aborts it.
	busy   bool
	cancel context.CancelFunc

	recording bool
	pending   *domain.AudioAttachment

	// targetID is the session being renamed; editID the message being edited.
	targetID string
	editID   int64

	baseURL string
	dark    bool

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chat driving.ChatService,
	sessions driving.SessionService,
	playback driving.PlaybackService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	v := &View{
		styles:     s,
		keymap:     km,
		chat:       chat,
		sessions:   sessions,
		playback:   playback,
		ctx:        context.Background(),
		kind:       domain.AssistantIPC,
		sidebar:    list.NewSessionList(s),
		transcript: viewport.New(80, 20),
		spinner:    sp,
		composer:   input.NewComposer(s),
		status:     status.NewBar(s, km),
		baseURL:    domain.DefaultAPIURL,
		width:      80,
		height:     24,
	}
	return v
}

// WithContext sets the parent context for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDisplay sets the API base for resolving links and the markdown theme.
func (v *View) SetDisplay(baseURL string, dark bool) {
	if baseURL != "" {
		v.baseURL = baseURL
	}
	v.dark = dark
	v.refreshTranscript()
}

// SetKind switches the assistant and loads its history.
func (v *View) SetKind(kind domain.AssistantKind) tea.Cmd {
	if kind != v.kind {
		v.chat.Release(v.session)
		v.chat.Discard(v.pending)
		v.kind = kind
		v.session = domain.ChatSession{}
		v.pending = nil
		v.editID = 0
		v.targetID = ""
		v.composer.Reset()
		v.status.Clear()
	}
	return v.loadSessions()
}

// Init initialises the view and loads the session history.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.composer.Init(), v.loadSessions())
}

func (v *View) loadSessions() tea.Cmd {
	kind := v.kind
	ctx := v.ctx
	return func() tea.Msg {
		current := v.chat.Current(ctx, kind)
		sessions := v.sessions.List(ctx, kind)
		found := false
		for i := range sessions {
			if sessions[i].ID == current.ID {
				found = true
				break
			}
		}
		if !found {
			sessions = append([]domain.ChatSession{current}, sessions...)
		}
		return messages.SessionsLoaded{Kind: kind, Sessions: sessions, CurrentID: current.ID}
	}
}

// Update handles messages for the chat view.
//
//nolint:gocyclo // central message handler
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.SessionsLoaded:
		if msg.Kind != v.kind {
			return v, nil
		}
		v.sidebar.SetSessions(msg.Sessions, msg.CurrentID)
		v.status.SetSessionCount(len(msg.Sessions))
		if !v.busy {
			for i := range msg.Sessions {
				if msg.Sessions[i].ID == msg.CurrentID {
					v.showSession(msg.Sessions[i])
					break
				}
			}
		}
		return v, nil

	case messages.DataChanged:
		if v.busy {
			return v, nil
		}
		return v, v.loadSessions()

	case messages.ReplyReceived:
		if msg.Kind != v.kind {
			return v, nil
		}
		v.finishRequest()
		if msg.Session != nil {
			v.showSession(*msg.Session)
		}
		switch {
		case errors.Is(msg.Err, context.Canceled):
			v.status.SetInfo("Request cancelled.")
		case msg.Err != nil:
			v.status.SetError(msg.Err)
		default:
			v.status.Clear()
		}
		return v, v.loadSessions()

	case messages.SessionChanged:
		if msg.Kind != v.kind {
			return v, nil
		}
		if msg.Err != nil {
			v.status.SetError(msg.Err)
			return v, nil
		}
		if msg.Session != nil {
			v.showSession(*msg.Session)
		}
		v.status.Clear()
		return v, v.loadSessions()

	case messages.RecordingStarted:
		if msg.Err != nil {
			v.status.SetError(msg.Err)
			return v, nil
		}
		v.recording = true
		v.status.SetState(status.StateRecording)
		v.status.SetMessage("")
		return v, nil

	case messages.RecordingStopped:
		v.recording = false
		if msg.Err != nil {
			v.status.SetError(msg.Err)
			return v, nil
		}
		v.replacePending(msg.Audio)
		v.status.SetInfo("Voice message ready. Add text or press enter to send.")
		return v, nil

	case messages.AttachmentLoaded:
		if msg.Err != nil {
			v.status.SetError(msg.Err)
			return v, nil
		}
		v.replacePending(msg.Audio)
		v.composer.Reset()
		v.status.SetInfo(fmt.Sprintf("Attached %s. Add text or press enter to send.", msg.Audio.Name))
		return v, nil

	case messages.PlaybackFinished:
		if msg.Err != nil {
			v.status.SetError(msg.Err)
			return v, nil
		}
		v.status.Clear()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	if v.busy {
		switch {
		case keymap.Matches(k, v.keymap.Cancel):
			if v.cancel != nil {
				v.cancel()
			}
		case keymap.Matches(k, v.keymap.ScrollUp), keymap.Matches(k, v.keymap.ScrollDown):
			return v.scroll(msg)
		}
		return v, nil
	}

	if v.recording {
		if keymap.Matches(k, v.keymap.Record) || keymap.Matches(k, v.keymap.Cancel) {
			return v, v.stopRecording()
		}
		return v, nil
	}

	switch {
	case keymap.Matches(k, v.keymap.Focus):
		v.sidebarFocused = !v.sidebarFocused
		if v.sidebarFocused {
			v.composer.Blur()
			return v, nil
		}
		return v, v.composer.Focus()
	case keymap.Matches(k, v.keymap.ScrollUp), keymap.Matches(k, v.keymap.ScrollDown):
		return v.scroll(msg)
	case keymap.Matches(k, v.keymap.NewChat):
		return v, v.newChat()
	case keymap.Matches(k, v.keymap.Rename):
		v.beginRename(v.targetSession())
		return v, v.composer.Focus()
	case keymap.Matches(k, v.keymap.Delete):
		return v, v.deleteSession(v.targetSession())
	}

	if v.sidebarFocused {
		return v.handleSidebarKey(msg)
	}
	return v.handleComposerKey(msg)
}

func (v *View) handleSidebarKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		v.sidebarFocused = false
		return v, v.composer.Focus()
	case keymap.Matches(k, v.keymap.Select):
		selected := v.sidebar.SelectedSession()
		if selected == nil {
			return v, nil
		}
		v.sidebarFocused = false
		return v, tea.Batch(v.switchSession(selected.ID), v.composer.Focus())
	}
	v.sidebar.Update(msg)
	return v, nil
}

func (v *View) handleComposerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v.back()
	case keymap.Matches(k, v.keymap.Send):
		return v.submit()
	case keymap.Matches(k, v.keymap.Record):
		return v, v.startRecording()
	case keymap.Matches(k, v.keymap.Attach):
		v.composer.SetMode(input.ModeAttach)
		return v, nil
	case keymap.Matches(k, v.keymap.Play):
		return v, v.playLatest()
	case keymap.Matches(k, v.keymap.Edit):
		v.beginEdit()
		return v, nil
	case keymap.Matches(k, v.keymap.Reload):
		return v, v.reloadLatest()
	}

	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return v, cmd
}

// back unwinds one level: composer mode, pending audio, then the menu.
func (v *View) back() (*View, tea.Cmd) {
	switch {
	case v.composer.Mode() != input.ModeMessage:
		v.composer.Reset()
		v.editID = 0
		v.targetID = ""
		v.status.Clear()
		return v, nil
	case v.pending != nil:
		v.replacePending(nil)
		v.status.SetInfo("Audio removed.")
		return v, nil
	}
	return v, func() tea.Msg {
		return messages.ViewChanged{View: messages.ViewMenu}
	}
}

func (v *View) submit() (*View, tea.Cmd) {
	value := v.composer.Value()

	switch v.composer.Mode() {
	case input.ModeAttach:
		path := strings.TrimSpace(value)
		if path == "" {
			return v, nil
		}
		return v, v.attachFile(path)

	case input.ModeRename:
		id := v.targetID
		v.targetID = ""
		v.composer.Reset()
		return v, v.rename(id, value)

	}

	kind, sessionID := v.kind, v.session.ID
	in := domain.SendInput{Text: value, Audio: v.pending}

	if v.composer.Mode() == input.ModeEdit {
		id := v.editID
		return v, v.startRequest("Resending...", func(ctx context.Context) (*domain.ChatSession, error) {
			return v.chat.EditAndResend(ctx, kind, sessionID, id, in)
		})
	}

	if in.IsEmpty() {
		return v, nil
	}
	return v, v.startRequest("", func(ctx context.Context) (*domain.ChatSession, error) {
		return v.chat.Send(ctx, kind, sessionID, in)
	})
}

// startRequest runs fn under a cancellable context and reports the result.
func (v *View) startRequest(label string, fn func(ctx context.Context) (*domain.ChatSession, error)) tea.Cmd {
	ctx, cancel := context.WithCancel(v.ctx)
	v.cancel = cancel
	v.busy = true
	v.pending = nil
	v.editID = 0
	v.composer.Reset()
	v.composer.Blur()
	v.status.SetState(status.StateSending)
	v.status.SetMessage(label)

	kind := v.kind
	request := func() tea.Msg {
		defer cancel()
		session, err := fn(ctx)
		return messages.ReplyReceived{Kind: kind, Session: session, Err: err}
	}
	return tea.Batch(request, v.spinner.Tick)
}

func (v *View) finishRequest() {
	v.busy = false
	v.cancel = nil
	v.composer.Focus()
}

func (v *View) beginEdit() {
	msg := v.latestUserMessage()
	if msg == nil {
		v.status.SetInfo("Nothing to edit yet.")
		return
	}
	v.composer.SetMode(input.ModeEdit)
	v.composer.SetValue(msg.Text())
	v.editID = msg.ID
}

func (v *View) reloadLatest() tea.Cmd {
	msg := v.latestUserMessage()
	if msg == nil {
		v.status.SetInfo("Nothing to reload yet.")
		return nil
	}
	id := msg.ID
	kind, sessionID := v.kind, v.session.ID
	return v.startRequest("Reloading...", func(ctx context.Context) (*domain.ChatSession, error) {
		return v.chat.Reload(ctx, kind, sessionID, id)
	})
}

func (v *View) latestUserMessage() *domain.Message {
	for i := len(v.session.Messages) - 1; i >= 0; i-- {
		if v.session.Messages[i].Sender == domain.SenderUser {
			return &v.session.Messages[i]
		}
	}
	return nil
}

func (v *View) beginRename(target *domain.ChatSession) {
	if target == nil {
		return
	}
	v.sidebarFocused = false
	v.targetID = target.ID
	v.composer.SetMode(input.ModeRename)
	v.composer.SetValue(target.Title)
}

// targetSession is the highlighted sidebar entry, or the open session.
func (v *View) targetSession() *domain.ChatSession {
	if v.sidebarFocused {
		if selected := v.sidebar.SelectedSession(); selected != nil {
			return selected
		}
	}
	if v.session.ID == "" {
		return nil
	}
	return &v.session
}

func (v *View) newChat() tea.Cmd {
	kind, ctx := v.kind, v.ctx
	return func() tea.Msg {
		session := v.chat.NewChat(ctx, kind)
		return messages.SessionChanged{Kind: kind, Session: &session}
	}
}

func (v *View) switchSession(id string) tea.Cmd {
	kind, ctx := v.kind, v.ctx
	return func() tea.Msg {
		session, err := v.chat.Switch(ctx, kind, id)
		return messages.SessionChanged{Kind: kind, Session: session, Err: err}
	}
}

func (v *View) rename(id, title string) tea.Cmd {
	kind, ctx, openID := v.kind, v.ctx, v.session.ID
	return func() tea.Msg {
		session, err := v.chat.Rename(ctx, kind, id, title)
		if err != nil {
			return messages.SessionChanged{Kind: kind, Err: err}
		}
		if id != openID {
			// Renaming another chat keeps the open one.
			return messages.SessionChanged{Kind: kind}
		}
		return messages.SessionChanged{Kind: kind, Session: session}
	}
}

func (v *View) deleteSession(target *domain.ChatSession) tea.Cmd {
	if target == nil {
		return nil
	}
	id := target.ID
	kind, ctx := v.kind, v.ctx
	return func() tea.Msg {
		session := v.chat.Delete(ctx, kind, id)
		return messages.SessionChanged{Kind: kind, Session: &session}
	}
}

func (v *View) startRecording() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return messages.RecordingStarted{Err: v.chat.StartRecording(ctx)}
	}
}

func (v *View) stopRecording() tea.Cmd {
	return func() tea.Msg {
		audio, err := v.chat.StopRecording()
		return messages.RecordingStopped{Audio: audio, Err: err}
	}
}

func (v *View) attachFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return messages.AttachmentLoaded{Err: fmt.Errorf("read audio file: %w", err)}
		}
		audio, err := v.chat.Attach(filepath.Base(path), data)
		return messages.AttachmentLoaded{Audio: audio, Err: err}
	}
}

func (v *View) playLatest() tea.Cmd {
	url := ""
	for i := len(v.session.Messages) - 1; i >= 0; i-- {
		if u := v.session.Messages[i].PlaybackURL(); u != "" {
			url = u
			break
		}
	}
	if url == "" {
		v.status.SetInfo("No audio in this chat yet.")
		return nil
	}
	if v.playback == nil {
		v.status.SetError(domain.ErrPlayerUnavailable)
		return nil
	}
	v.status.SetState(status.StatePlaying)
	v.status.SetMessage("")
	ctx := v.ctx
	return func() tea.Msg {
		return messages.PlaybackFinished{Err: v.playback.Play(ctx, url)}
	}
}

func (v *View) scroll(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.ScrollUp) {
		v.transcript.HalfViewUp()
	} else {
		v.transcript.HalfViewDown()
	}
	return v, nil
}

// replacePending swaps the pending attachment, discarding the old one.
func (v *View) replacePending(att *domain.AudioAttachment) {
	if v.pending != nil && v.pending != att {
		v.chat.Discard(v.pending)
	}
	v.pending = att
}

func (v *View) showSession(session domain.ChatSession) {
	v.releaseStale(session)
	v.session = session
	v.refreshTranscript()
	v.transcript.GotoBottom()
}

// releaseStale releases audio URLs of the shown session that next and the
// pending attachment no longer use.
func (v *View) releaseStale(next domain.ChatSession) {
	live := make(map[string]bool)
	for _, msg := range next.Messages {
		live[msg.AudioURL] = true
	}
	if v.pending != nil {
		live[v.pending.URL] = true
	}

	var stale domain.ChatSession
	for _, msg := range v.session.Messages {
		if msg.IsUserAudio() && msg.AudioURL != "" && !live[msg.AudioURL] {
			stale.Messages = append(stale.Messages, msg)
		}
	}
	if len(stale.Messages) > 0 {
		v.chat.Release(stale)
	}
}

func (v *View) refreshTranscript() {
	if v.session.ID == "" {
		v.transcript.SetContent("")
		return
	}
	v.transcript.SetContent(transcript(v.styles, &v.session, v.baseURL, v.transcript.Width, v.dark))
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.transcript.View(),
		v.renderPending(),
		v.composer.View(),
	)

	body := main
	if v.showSidebar() {
		sidebar := v.styles.Border.
			Width(sidebarWidth - 2).
			Height(v.bodyHeight() - 2).
			Render(v.sidebar.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, v.status.View())
}

func (v *View) renderHeader() string {
	title := v.styles.Title.Render(v.kind.Description())
	if v.session.ID != "" {
		title += v.styles.Muted.Render("  " + v.session.Title)
	}
	if v.busy {
		title += "  " + v.spinner.View()
	}
	return title
}

func (v *View) renderPending() string {
	if v.pending == nil {
		return ""
	}
	return v.styles.Warning.Render(fmt.Sprintf("🎙 %s attached (esc to remove)", v.pending.Name))
}

func (v *View) showSidebar() bool {
	return v.width >= minSidebarWidth
}

func (v *View) bodyHeight() int {
	h := v.height - 1 // status bar
	if h < 6 {
		h = 6
	}
	return h
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	mainWidth := width
	if v.showSidebar() {
		mainWidth = width - sidebarWidth - 1
		v.sidebar.SetDimensions(sidebarWidth-4, v.bodyHeight()-2)
	}

	// header, pending line and the bordered composer
	transcriptHeight := v.bodyHeight() - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.transcript.Width = mainWidth
	v.transcript.Height = transcriptHeight
	v.composer.SetWidth(mainWidth)
	v.status.SetWidth(width)
	v.refreshTranscript()
}

// Kind returns the assistant being shown.
func (v *View) Kind() domain.AssistantKind {
	return v.kind
}

// Session returns the open session.
func (v *View) Session() domain.ChatSession {
	return v.session
}

// Busy reports whether a request is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Recording reports whether microphone capture is running.
func (v *View) Recording() bool {
	return v.recording
}

// Pending returns the audio waiting to be sent.
func (v *View) Pending() *domain.AudioAttachment {
	return v.pending
}

// SidebarFocused reports whether keys go to the session list.
func (v *View) SidebarFocused() bool {
	return v.sidebarFocused
}

// Composer exposes the input for tests and the app.
func (v *View) Composer() *input.Composer {
	return v.composer
}

// Status exposes the status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
