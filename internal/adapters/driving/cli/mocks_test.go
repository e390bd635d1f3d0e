package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

var testTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// MockAuthService is a mock implementation of driving.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	args := m.Called(ctx, email, password)
	return credsArg(args, 0), args.Error(1)
}

func (m *MockAuthService) Register(
	ctx context.Context, name, email, password string,
) (*domain.Credentials, string, error) {
	args := m.Called(ctx, name, email, password)
	return credsArg(args, 0), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout() error {
	return m.Called().Error(0)
}

func (m *MockAuthService) Current() *domain.Credentials {
	return credsArg(m.Called(), 0)
}

func (m *MockAuthService) RequireAuth() (*domain.Credentials, error) {
	args := m.Called()
	return credsArg(args, 0), args.Error(1)
}

func credsArg(args mock.Arguments, i int) *domain.Credentials {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*domain.Credentials)
}

// signedIn returns an auth mock that passes the sign-in guard.
func signedIn() *MockAuthService {
	m := &MockAuthService{}
	m.On("RequireAuth").Return(&domain.Credentials{Token: "token-1234567890", Name: "Asha"}, nil).Maybe()
	return m
}

// MockChatService is a mock implementation of driving.ChatService.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Current(ctx context.Context, kind domain.AssistantKind) domain.ChatSession {
	return m.Called(ctx, kind).Get(0).(domain.ChatSession)
}

func (m *MockChatService) NewChat(ctx context.Context, kind domain.AssistantKind) domain.ChatSession {
	return m.Called(ctx, kind).Get(0).(domain.ChatSession)
}

func (m *MockChatService) Switch(ctx context.Context, kind domain.AssistantKind, id string) (*domain.ChatSession, error) {
	args := m.Called(ctx, kind, id)
	return sessionArg(args, 0), args.Error(1)
}

func (m *MockChatService) Attach(name string, data []byte) (*domain.AudioAttachment, error) {
	args := m.Called(name, data)
	return audioArg(args, 0), args.Error(1)
}

func (m *MockChatService) StartRecording(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockChatService) StopRecording() (*domain.AudioAttachment, error) {
	args := m.Called()
	return audioArg(args, 0), args.Error(1)
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
	return m.Called(ctx, kind, sessionID).Get(0).(domain.ChatSession)
}

func (m *MockChatService) Discard(att *domain.AudioAttachment) {
	m.Called(att)
}

func (m *MockChatService) Release(session domain.ChatSession) {
	m.Called(session)
}

func sessionArg(args mock.Arguments, i int) *domain.ChatSession {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*domain.ChatSession)
}

func audioArg(args mock.Arguments, i int) *domain.AudioAttachment {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*domain.AudioAttachment)
}

// MockSessionService is a mock implementation of driving.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) List(ctx context.Context, kind domain.AssistantKind) []domain.ChatSession {
	return m.Called(ctx, kind).Get(0).([]domain.ChatSession)
}

func (m *MockSessionService) Get(ctx context.Context, kind domain.AssistantKind, id string) *domain.ChatSession {
	return sessionArg(m.Called(ctx, kind, id), 0)
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

// MockSchemeService is a mock implementation of driving.SchemeService.
type MockSchemeService struct {
	mock.Mock
}

func (m *MockSchemeService) Recommend(
	ctx context.Context, profile domain.SchemeProfile,
) ([]domain.SchemeRecommendation, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SchemeRecommendation), args.Error(1)
}

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	return m.Called(settings).Error(0)
}

func (m *MockSettingsService) SetAPIURL(raw string) error {
	return m.Called(raw).Error(0)
}

func (m *MockSettingsService) SetDarkMode(enabled bool) error {
	return m.Called(enabled).Error(0)
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return m.Called().Get(0).(domain.AppSettings)
}

// MockDashboardService is a mock implementation of driving.DashboardService.
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

// MockPlaybackService is a mock implementation of driving.PlaybackService.
type MockPlaybackService struct {
	mock.Mock
}

func (m *MockPlaybackService) Play(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

// execute runs the root command with the given services and arguments and
// returns everything written to stdout and stderr.
func execute(t *testing.T, services Services, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	SetServices(services)
	resetFlags(rootCmd)
	t.Cleanup(func() {
		SetServices(Services{})
		resetFlags(rootCmd)
		rootCmd.SetIn(nil)
	})

	if stdin == nil {
		stdin = strings.NewReader("")
	}
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag in the tree to its default value.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// withPrompts makes prompts interactive and answers them from answers.
func withPrompts(t *testing.T, answers map[string]string) {
	t.Helper()
	origAsk, origInteractive := askOne, isInteractive
	t.Cleanup(func() {
		askOne = origAsk
		isInteractive = origInteractive
	})

	isInteractive = func() bool { return true }
	askOne = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		var message string
		switch q := p.(type) {
		case *survey.Input:
			message = q.Message
		case *survey.Password:
			message = q.Message
		case *survey.Select:
			message = q.Message
		case *survey.Confirm:
			*response.(*bool) = answers[q.Message] == "yes"
			return nil
		}
		*response.(*string) = answers[message]
		return nil
	}
}

// nonInteractive makes prompts fail as if stdin were not a terminal.
func nonInteractive(t *testing.T) {
	t.Helper()
	orig := isInteractive
	t.Cleanup(func() { isInteractive = orig })
	isInteractive = func() bool { return false }
}

func newSession(kind domain.AssistantKind, id, title string) domain.ChatSession {
	s := domain.NewChatSession(kind, id, testTime)
	s.Title = title
	return s
}

// withReply appends a user text message and a bot text reply.
func withReply(s domain.ChatSession, id int64, text, reply string) domain.ChatSession {
	s.AppendMessage(domain.Message{
		ID: id, Sender: domain.SenderUser, Type: domain.MessageText, Content: text, Timestamp: testTime,
	})
	s.AppendMessage(domain.Message{
		ID: id + 1, Sender: domain.SenderBot, Type: domain.MessageText, Content: reply, Timestamp: testTime,
	})
	return s
}
