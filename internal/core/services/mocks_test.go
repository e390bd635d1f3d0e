package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
)

var errDiskFull = errors.New("disk full")

// mockBackend records requests and returns canned responses.
type mockBackend struct {
	mu sync.Mutex

	loginResult    *domain.AuthResult
	registerResult *domain.AuthResult
	authErr        error

	recommendations []domain.SchemeRecommendation
	schemeErr       error
	schemeRequests  []domain.SchemeRequest
	schemeTokens    []string

	reply        *domain.ChatReply
	sendErr      error
	chatRequests []domain.ChatRequest
	block        bool
}

var _ driven.Backend = (*mockBackend)(nil)

func (m *mockBackend) Login(_ context.Context, _ domain.LoginRequest) (*domain.AuthResult, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.loginResult, nil
}

func (m *mockBackend) Register(_ context.Context, _ domain.RegisterRequest) (*domain.AuthResult, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.registerResult, nil
}

func (m *mockBackend) RecommendSchemes(
	_ context.Context, token string, req domain.SchemeRequest,
) ([]domain.SchemeRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemeRequests = append(m.schemeRequests, req)
	m.schemeTokens = append(m.schemeTokens, token)
	return m.recommendations, m.schemeErr
}

func (m *mockBackend) SendAudio(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	m.mu.Lock()
	m.chatRequests = append(m.chatRequests, req)
	block := m.block
	m.mu.Unlock()
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	if m.reply == nil {
		return &domain.ChatReply{}, nil
	}
	return m.reply, nil
}

func (m *mockBackend) BaseURL() string {
	return "http://backend.test"
}

func (m *mockBackend) requests() []domain.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatRequest(nil), m.chatRequests...)
}

// mockRecorder returns a fixed recording.
type mockRecorder struct {
	recording bool
	data      []byte
	startErr  error
}

var _ driven.Recorder = (*mockRecorder)(nil)

func (r *mockRecorder) Start(_ context.Context) error {
	if r.startErr != nil {
		return r.startErr
	}
	r.recording = true
	return nil
}

func (r *mockRecorder) Stop() ([]byte, error) {
	if !r.recording {
		return nil, domain.ErrNotRecording
	}
	r.recording = false
	return r.data, nil
}

func (r *mockRecorder) Recording() bool {
	return r.recording
}

// failingSessionStore fails every operation.
type failingSessionStore struct{}

var _ driven.SessionStore = failingSessionStore{}

func (failingSessionStore) List(context.Context, domain.AssistantKind) ([]domain.ChatSession, error) {
	return nil, errDiskFull
}

func (failingSessionStore) Get(context.Context, domain.AssistantKind, string) (*domain.ChatSession, error) {
	return nil, errDiskFull
}

func (failingSessionStore) Save(context.Context, domain.ChatSession) error {
	return errDiskFull
}

func (failingSessionStore) Delete(context.Context, domain.AssistantKind, string) error {
	return errDiskFull
}

func (failingSessionStore) Truncate(context.Context, domain.AssistantKind, int) error {
	return errDiskFull
}
