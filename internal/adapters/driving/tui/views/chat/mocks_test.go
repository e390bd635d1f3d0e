package chat

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

var testTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// MockChatService is a mock implementation of driving.ChatService.
// Discard and Release are recorded rather than matched.
type MockChatService struct {
	mock.Mock
	discarded []*domain.AudioAttachment
	released  []string
}

func (m *MockChatService) Current(ctx context.Context, kind domain.AssistantKind) domain.ChatSession {
	args := m.Called(ctx, kind)
	return args.Get(0).(domain.ChatSession)
}

func (m *MockChatService) NewChat(ctx context.Context, kind domain.AssistantKind) domain.ChatSession {
	args := m.Called(ctx, kind)
	return args.Get(0).(domain.ChatSession)
}

func (m *MockChatService) Switch(ctx context.Context, kind domain.AssistantKind, id string) (*domain.ChatSession, error) {
	args := m.Called(ctx, kind, id)
	return sessionArg(args, 0), args.Error(1)
}

func (m *MockChatService) Attach(name string, data []byte) (*domain.AudioAttachment, error) {
	args := m.Called(name, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioAttachment), args.Error(1)
}

func (m *MockChatService) StartRecording(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockChatService) StopRecording() (*domain.AudioAttachment, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioAttachment), args.Error(1)
}

func (m *MockChatService) Send(
	ctx context.Context, kind domain.AssistantKind, sessionID string, in domain.SendInput,
) (*domain.ChatSession, error) {
	args := m.Called(ctx, kind, sessionID, in)
	return sessionArg(args, 0), args.Error(1)
}

func (m *MockChatService) EditAndResend(
	ctx context.Context, kind domain.AssistantKind, sessionID string, messageID int64, in domain.SendInput,
) (*domain.ChatSession, error) {
	args := m.Called(ctx, kind, sessionID, messageID, in)
	return sessionArg(args, 0), args.Error(1)
}

func (m *MockChatService) Reload(
	ctx context.Context, kind domain.AssistantKind, sessionID string, messageID int64,
) (*domain.ChatSession, error) {
	args := m.Called(ctx, kind, sessionID, messageID)
	return sessionArg(args, 0), args.Error(1)
}

func (m *MockChatService) Rename(
	ctx context.Context, kind domain.AssistantKind, sessionID, title string,
) (*domain.ChatSession, error) {
	args := m.Called(ctx, kind, sessionID, title)
	return sessionArg(args, 0), args.Error(1)
}

func (m *MockChatService) Delete(ctx context.Context, kind domain.AssistantKind, sessionID string) domain.ChatSession {
	args := m.Called(ctx, kind, sessionID)
	return args.Get(0).(domain.ChatSession)
}

func (m *MockChatService) Discard(att *domain.AudioAttachment) {
	if att != nil {
		m.discarded = append(m.discarded, att)
	}
}

// Release records the audio URLs released.
func (m *MockChatService) Release(session domain.ChatSession) {
	for _, msg := range session.Messages {
		if msg.AudioURL != "" {
			m.released = append(m.released, msg.AudioURL)
		}
	}
}

func sessionArg(args mock.Arguments, i int) *domain.ChatSession {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*domain.ChatSession)
}

// MockSessionService is a mock implementation of driving.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) List(ctx context.Context, kind domain.AssistantKind) []domain.ChatSession {
	args := m.Called(ctx, kind)
	return args.Get(0).([]domain.ChatSession)
}

func (m *MockSessionService) Get(ctx context.Context, kind domain.AssistantKind, id string) *domain.ChatSession {
	args := m.Called(ctx, kind, id)
	return sessionArg(args, 0)
}

func (m *MockSessionService) Save(ctx context.Context, session domain.ChatSession) {
	m.Called(ctx, session)
}

func (m *MockSessionService) Delete(ctx context.Context, kind domain.AssistantKind, id string) {
	m.Called(ctx, kind, id)
}

func (m *MockSessionService) CurrentID(kind domain.AssistantKind) string {
	return m.Called(kind).String(0)
}

func (m *MockSessionService) SetCurrentID(kind domain.AssistantKind, id string) {
	m.Called(kind, id)
}

func (m *MockSessionService) New(kind domain.AssistantKind) domain.ChatSession {
	return m.Called(kind).Get(0).(domain.ChatSession)
}

// MockPlaybackService is a mock implementation of driving.PlaybackService.
type MockPlaybackService struct {
	mock.Mock
}

func (m *MockPlaybackService) Play(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func newSession(id, title string) domain.ChatSession {
	s := domain.NewChatSession(domain.AssistantIPC, id, testTime)
	s.Title = title
	return s
}

// withExchange appends a user text message and a bot reply.
func withExchange(s domain.ChatSession, id int64, text, reply string) domain.ChatSession {
	s.AppendMessage(domain.Message{
		ID: id, Sender: domain.SenderUser, Type: domain.MessageText, Content: text, Timestamp: testTime,
	})
	s.AppendMessage(domain.Message{
		ID: id + 1, Sender: domain.SenderBot, Type: domain.MessageText, Content: reply, Timestamp: testTime,
	})
	return s
}

// collect runs cmd and any batched commands, dropping ones that block.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(200 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// find returns the first message of type T.
func find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
