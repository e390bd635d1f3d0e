package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

type fixture struct {
	view     *View
	chat     *MockChatService
	sessions *MockSessionService
	playback *MockPlaybackService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		chat:     &MockChatService{},
		sessions: &MockSessionService{},
		playback: &MockPlaybackService{},
	}
	f.view = NewView(nil, nil, f.chat, f.sessions, f.playback)
	f.view.SetDimensions(120, 40)
	return f
}

// open shows session as the current chat without going through the services.
func (f *fixture) open(session domain.ChatSession) {
	f.view.Update(messages.SessionsLoaded{
		Kind:      domain.AssistantIPC,
		Sessions:  []domain.ChatSession{session},
		CurrentID: session.ID,
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &MockChatService{}, &MockSessionService{}, nil)

	require.NotNil(t, v)
	assert.Equal(t, domain.AssistantIPC, v.Kind())
	assert.False(t, v.Busy())
	assert.False(t, v.ready)
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_LoadSessions(t *testing.T) {
	f := newFixture(t)
	current := newSession("session_2", "Stolen phone")
	older := newSession("session_1", "Landlord dispute")
	f.chat.On("Current", mock.Anything, domain.AssistantIPC).Return(current)
	f.sessions.On("List", mock.Anything, domain.AssistantIPC).Return([]domain.ChatSession{current, older})

	msgs := collect(t, f.view.SetKind(domain.AssistantIPC))
	loaded, ok := find[messages.SessionsLoaded](msgs)
	require.True(t, ok)
	assert.Equal(t, "session_2", loaded.CurrentID)

	f.view.Update(loaded)

	assert.Equal(t, "session_2", f.view.Session().ID)
	assert.Equal(t, 2, f.view.Status().SessionCount())
	assert.Contains(t, f.view.View(), "Stolen phone")
	assert.Contains(t, f.view.View(), "Landlord dispute")
}

func TestView_LoadSessions_PrependsUnlistedCurrent(t *testing.T) {
	f := newFixture(t)
	current := newSession("session_9", "New Chat")
	f.chat.On("Current", mock.Anything, domain.AssistantIPC).Return(current)
	f.sessions.On("List", mock.Anything, domain.AssistantIPC).Return([]domain.ChatSession{newSession("session_1", "Old")})

	loaded, ok := find[messages.SessionsLoaded](collect(t, f.view.loadSessions()))

	require.True(t, ok)
	require.Len(t, loaded.Sessions, 2)
	assert.Equal(t, "session_9", loaded.Sessions[0].ID)
}

func TestView_SessionsLoaded_OtherKindIgnored(t *testing.T) {
	f := newFixture(t)

	f.view.Update(messages.SessionsLoaded{
		Kind:      domain.AssistantBNS,
		Sessions:  []domain.ChatSession{newSession("bns_session_1", "x")},
		CurrentID: "bns_session_1",
	})

	assert.Empty(t, f.view.Session().ID)
}

func TestView_Send(t *testing.T) {
	f := newFixture(t)
	session := newSession("session_1", "New Chat")
	f.open(session)
	replied := withExchange(session, 100, "my phone was stolen", "File an FIR")
	f.chat.On("Send", mock.Anything, domain.AssistantIPC, "session_1", domain.SendInput{Text: "my phone was stolen"}).
		Return(&replied, nil)

	f.view.Composer().SetValue("my phone was stolen")
	_, cmd := f.view.Update(key("enter"))

	assert.True(t, f.view.Busy())
	assert.Equal(t, status.StateSending, f.view.Status().State())
	assert.Empty(t, f.view.Composer().Value())

	reply, ok := find[messages.ReplyReceived](collect(t, cmd))
	require.True(t, ok)
	require.NoError(t, reply.Err)

	_, next := f.view.Update(reply)

	assert.False(t, f.view.Busy())
	assert.NotNil(t, next)
	assert.Len(t, f.view.Session().Messages, 3)
	assert.Contains(t, f.view.View(), "File an FIR")
	f.chat.AssertExpectations(t)
}

func TestView_Send_EmptyInputIgnored(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "New Chat"))

	f.view.Composer().SetValue("   ")
	_, cmd := f.view.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.False(t, f.view.Busy())
}

func TestView_Send_Cancel(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "New Chat"))
	f.chat.On("Send", mock.Anything, domain.AssistantIPC, "session_1", mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled)

	f.view.Composer().SetValue("hello")
	_, cmd := f.view.Update(key("enter"))
	f.view.Update(key("esc"))

	reply, ok := find[messages.ReplyReceived](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(reply)

	assert.False(t, f.view.Busy())
	assert.Equal(t, status.StateInfo, f.view.Status().State())
	assert.Equal(t, "Request cancelled.", f.view.Status().Message())
}

func TestView_Send_Error(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "New Chat"))

	f.view.busy = true
	f.view.Update(messages.ReplyReceived{Kind: domain.AssistantIPC, Err: errors.New("session not found")})

	assert.False(t, f.view.Busy())
	assert.Equal(t, status.StateError, f.view.Status().State())
	assert.Equal(t, "session not found", f.view.Status().Message())
}

func TestView_BusyIgnoresTyping(t *testing.T) {
	f := newFixture(t)
	f.view.busy = true

	_, cmd := f.view.Update(key("a"))

	assert.Nil(t, cmd)
	assert.Empty(t, f.view.Composer().Value())
}

func TestView_RecordAndSend(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "New Chat"))
	clip := &domain.AudioAttachment{Name: "recording.wav", MIMEType: "audio/wav", Data: []byte("RIFF")}
	f.chat.On("StartRecording", mock.Anything).Return(nil)
	f.chat.On("StopRecording").Return(clip, nil)
	f.chat.On("Send", mock.Anything, domain.AssistantIPC, "session_1", domain.SendInput{Audio: clip}).
		Return(nil, nil)

	_, cmd := f.view.Update(key("ctrl+r"))
	started, ok := find[messages.RecordingStarted](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(started)
	assert.True(t, f.view.Recording())
	assert.Equal(t, status.StateRecording, f.view.Status().State())

	// typing is ignored while recording
	f.view.Update(key("x"))
	assert.Empty(t, f.view.Composer().Value())

	_, cmd = f.view.Update(key("ctrl+r"))
	stopped, ok := find[messages.RecordingStopped](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(stopped)
	assert.False(t, f.view.Recording())
	assert.Equal(t, clip, f.view.Pending())
	assert.Contains(t, f.view.View(), "recording.wav attached")

	_, cmd = f.view.Update(key("enter"))
	assert.Nil(t, f.view.Pending())
	_, ok = find[messages.ReplyReceived](collect(t, cmd))
	assert.True(t, ok)
	f.chat.AssertExpectations(t)
}

func TestView_Record_Unavailable(t *testing.T) {
	f := newFixture(t)
	f.chat.On("StartRecording", mock.Anything).Return(domain.ErrRecorderUnavailable)

	_, cmd := f.view.Update(key("ctrl+r"))
	started, _ := find[messages.RecordingStarted](collect(t, cmd))
	f.view.Update(started)

	assert.False(t, f.view.Recording())
	assert.Equal(t, status.StateError, f.view.Status().State())
}

func TestView_Attach(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0o600))
	clip := &domain.AudioAttachment{Name: "clip.mp3", MIMEType: "audio/mpeg", Data: []byte("ID3")}
	f.chat.On("Attach", "clip.mp3", []byte("ID3")).Return(clip, nil)

	f.view.Update(key("ctrl+o"))
	assert.Equal(t, input.ModeAttach, f.view.Composer().Mode())

	f.view.Composer().SetValue(path)
	_, cmd := f.view.Update(key("enter"))
	loaded, ok := find[messages.AttachmentLoaded](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(loaded)

	assert.Equal(t, clip, f.view.Pending())
	assert.Equal(t, input.ModeMessage, f.view.Composer().Mode())
	assert.Contains(t, f.view.Status().Message(), "Attached clip.mp3")
}

func TestView_Attach_MissingFile(t *testing.T) {
	f := newFixture(t)

	f.view.Update(key("ctrl+o"))
	f.view.Composer().SetValue(filepath.Join(t.TempDir(), "missing.wav"))
	_, cmd := f.view.Update(key("enter"))
	loaded, ok := find[messages.AttachmentLoaded](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(loaded)

	assert.Nil(t, f.view.Pending())
	assert.Contains(t, f.view.Status().Message(), "read audio file")
}

func TestView_Back_Unwinds(t *testing.T) {
	f := newFixture(t)
	f.view.pending = &domain.AudioAttachment{Name: "clip.wav"}
	f.view.Composer().SetMode(input.ModeAttach)

	_, cmd := f.view.Update(key("esc"))
	assert.Nil(t, cmd)
	assert.Equal(t, input.ModeMessage, f.view.Composer().Mode())
	assert.NotNil(t, f.view.Pending())

	_, cmd = f.view.Update(key("esc"))
	assert.Nil(t, cmd)
	assert.Nil(t, f.view.Pending())
	require.Len(t, f.chat.discarded, 1)
	assert.Equal(t, "clip.wav", f.chat.discarded[0].Name)

	_, cmd = f.view.Update(key("esc"))
	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestView_NewChat(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "Old"))
	fresh := newSession("session_2", "New Chat")
	f.chat.On("NewChat", mock.Anything, domain.AssistantIPC).Return(fresh)

	_, cmd := f.view.Update(key("ctrl+n"))
	changed, ok := find[messages.SessionChanged](collect(t, cmd))
	require.True(t, ok)
	_, next := f.view.Update(changed)

	assert.Equal(t, "session_2", f.view.Session().ID)
	assert.NotNil(t, next)
}

func TestView_Rename(t *testing.T) {
	f := newFixture(t)
	session := newSession("session_1", "New Chat")
	f.open(session)
	renamed := session
	renamed.Title = "Stolen bike"
	f.chat.On("Rename", mock.Anything, domain.AssistantIPC, "session_1", "Stolen bike").Return(&renamed, nil)

	f.view.Update(key("ctrl+t"))
	assert.Equal(t, input.ModeRename, f.view.Composer().Mode())
	assert.Equal(t, "New Chat", f.view.Composer().Value())

	f.view.Composer().SetValue("Stolen bike")
	_, cmd := f.view.Update(key("enter"))
	changed, ok := find[messages.SessionChanged](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(changed)

	assert.Equal(t, "Stolen bike", f.view.Session().Title)
	assert.Equal(t, input.ModeMessage, f.view.Composer().Mode())
}

func TestView_Rename_Error(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "New Chat"))
	f.chat.On("Rename", mock.Anything, domain.AssistantIPC, "session_1", "").Return(nil, domain.ErrInvalidInput)

	f.view.Update(key("ctrl+t"))
	f.view.Composer().SetValue("")
	_, cmd := f.view.Update(key("enter"))
	changed, _ := find[messages.SessionChanged](collect(t, cmd))
	f.view.Update(changed)

	assert.Equal(t, status.StateError, f.view.Status().State())
	assert.Equal(t, "New Chat", f.view.Session().Title)
}

func TestView_Delete(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "Old"))
	f.chat.On("Delete", mock.Anything, domain.AssistantIPC, "session_1").Return(newSession("session_2", "New Chat"))

	_, cmd := f.view.Update(key("ctrl+x"))
	changed, ok := find[messages.SessionChanged](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(changed)

	assert.Equal(t, "session_2", f.view.Session().ID)
	f.chat.AssertExpectations(t)
}

func TestView_Sidebar_Switch(t *testing.T) {
	f := newFixture(t)
	first := newSession("session_2", "Newest")
	second := newSession("session_1", "Older")
	f.view.Update(messages.SessionsLoaded{
		Kind:      domain.AssistantIPC,
		Sessions:  []domain.ChatSession{first, second},
		CurrentID: first.ID,
	})
	f.chat.On("Switch", mock.Anything, domain.AssistantIPC, "session_1").Return(&second, nil)

	f.view.Update(key("tab"))
	assert.True(t, f.view.SidebarFocused())
	assert.False(t, f.view.Composer().Focused())

	f.view.Update(key("down"))
	_, cmd := f.view.Update(key("enter"))
	assert.False(t, f.view.SidebarFocused())

	changed, ok := find[messages.SessionChanged](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(changed)

	assert.Equal(t, "session_1", f.view.Session().ID)
}

func TestView_Sidebar_DeleteHighlighted(t *testing.T) {
	f := newFixture(t)
	first := newSession("session_2", "Newest")
	second := newSession("session_1", "Older")
	f.view.Update(messages.SessionsLoaded{
		Kind:      domain.AssistantIPC,
		Sessions:  []domain.ChatSession{first, second},
		CurrentID: first.ID,
	})
	f.chat.On("Delete", mock.Anything, domain.AssistantIPC, "session_1").Return(first)

	f.view.Update(key("tab"))
	f.view.Update(key("down"))
	_, cmd := f.view.Update(key("ctrl+x"))
	collect(t, cmd)

	f.chat.AssertExpectations(t)
}

func TestView_Edit(t *testing.T) {
	f := newFixture(t)
	session := withExchange(newSession("session_1", "Chat"), 5, "old question", "old answer")
	f.open(session)
	f.chat.On("EditAndResend", mock.Anything, domain.AssistantIPC, "session_1", int64(5),
		domain.SendInput{Text: "new question"}).Return(&session, nil)

	f.view.Update(key("ctrl+e"))
	assert.Equal(t, input.ModeEdit, f.view.Composer().Mode())
	assert.Equal(t, "old question", f.view.Composer().Value())

	f.view.Composer().SetValue("new question")
	_, cmd := f.view.Update(key("enter"))
	assert.Equal(t, "Resending...", f.view.Status().Message())

	_, ok := find[messages.ReplyReceived](collect(t, cmd))
	assert.True(t, ok)
	f.chat.AssertExpectations(t)
}

func TestView_Edit_NothingToEdit(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "Chat"))

	f.view.Update(key("ctrl+e"))

	assert.Equal(t, input.ModeMessage, f.view.Composer().Mode())
	assert.Equal(t, "Nothing to edit yet.", f.view.Status().Message())
}

func TestView_Reload(t *testing.T) {
	f := newFixture(t)
	session := withExchange(newSession("session_1", "Chat"), 5, "question", "answer")
	f.open(session)
	f.chat.On("Reload", mock.Anything, domain.AssistantIPC, "session_1", int64(5)).Return(&session, nil)

	_, cmd := f.view.Update(key("ctrl+l"))
	assert.True(t, f.view.Busy())

	_, ok := find[messages.ReplyReceived](collect(t, cmd))
	assert.True(t, ok)
	f.chat.AssertExpectations(t)
}

func TestView_Play(t *testing.T) {
	f := newFixture(t)
	session := newSession("session_1", "Chat")
	session.AppendMessage(domain.Message{
		ID: 7, Sender: domain.SenderBot, Type: domain.MessageAudioResponse,
		AudioURL: "http://localhost:5000/audio/7.mp3", Timestamp: testTime,
	})
	f.open(session)
	f.playback.On("Play", mock.Anything, "http://localhost:5000/audio/7.mp3").Return(nil)

	_, cmd := f.view.Update(key("ctrl+p"))
	assert.Equal(t, status.StatePlaying, f.view.Status().State())

	finished, ok := find[messages.PlaybackFinished](collect(t, cmd))
	require.True(t, ok)
	f.view.Update(finished)

	assert.Equal(t, status.StateReady, f.view.Status().State())
	f.playback.AssertExpectations(t)
}

func TestView_Play_NoAudio(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "Chat"))

	_, cmd := f.view.Update(key("ctrl+p"))

	assert.Nil(t, cmd)
	assert.Equal(t, "No audio in this chat yet.", f.view.Status().Message())
}

func TestView_Play_NoPlayer(t *testing.T) {
	v := NewView(nil, nil, &MockChatService{}, &MockSessionService{}, nil)
	v.SetDimensions(120, 40)
	session := newSession("session_1", "Chat")
	session.AppendMessage(domain.Message{
		ID: 7, Sender: domain.SenderBot, Type: domain.MessageAudioResponse, AudioURL: "file:///tmp/a.mp3",
	})
	v.showSession(session)

	_, cmd := v.Update(key("ctrl+p"))

	assert.Nil(t, cmd)
	assert.Equal(t, status.StateError, v.Status().State())
}

func TestView_DataChanged(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.view.Update(messages.DataChanged{})
	assert.NotNil(t, cmd)

	f.view.busy = true
	_, cmd = f.view.Update(messages.DataChanged{})
	assert.Nil(t, cmd)
}

func TestView_SetKind_ResetsState(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "Chat"))
	f.view.pending = &domain.AudioAttachment{Name: "clip.wav"}

	cmd := f.view.SetKind(domain.AssistantBNS)

	assert.NotNil(t, cmd)
	assert.Equal(t, domain.AssistantBNS, f.view.Kind())
	assert.Nil(t, f.view.Pending())
	assert.Empty(t, f.view.Session().ID)
	assert.Len(t, f.chat.discarded, 1)
}

func TestView_Attach_ReplacesPending(t *testing.T) {
	f := newFixture(t)
	old := &domain.AudioAttachment{Name: "old.wav", URL: "blob:memory/old"}
	clip := &domain.AudioAttachment{Name: "clip.mp3", URL: "blob:memory/clip"}
	f.view.pending = old

	f.view.Update(messages.AttachmentLoaded{Audio: clip})

	assert.Equal(t, clip, f.view.Pending())
	assert.Equal(t, []*domain.AudioAttachment{old}, f.chat.discarded)
}

func TestView_ShowSession_ReleasesStaleAudio(t *testing.T) {
	f := newFixture(t)
	withAudio := func(s domain.ChatSession, id int64, url string) domain.ChatSession {
		s.AppendMessage(domain.Message{
			ID: id, Sender: domain.SenderUser, Type: domain.MessageAudio,
			Content: url, AudioURL: url, Timestamp: testTime,
		})
		return s
	}
	first := withAudio(newSession("session_1", "One"), 10, "blob:memory/a")
	f.open(first)
	assert.Empty(t, f.chat.released)

	// reloading with the same URL keeps it
	f.open(withAudio(first, 11, "blob:memory/b"))
	assert.Empty(t, f.chat.released)

	f.open(withAudio(newSession("session_2", "Two"), 12, "blob:memory/b"))
	assert.Equal(t, []string{"blob:memory/a"}, f.chat.released)
}

func TestView_View_NarrowHidesSidebar(t *testing.T) {
	f := newFixture(t)
	f.open(newSession("session_1", "Chat"))

	assert.Contains(t, f.view.View(), "Chats (1)")

	f.view.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	view := f.view.View()
	assert.NotContains(t, view, "Chats (1)")
	assert.Contains(t, view, "IPC Legal Assistant")
}
