package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	sessions map[domain.AssistantKind][]domain.ChatSession
	current  map[domain.AssistantKind]string
}

func newMockSessionService() *mockSessionService {
	return &mockSessionService{
		sessions: make(map[domain.AssistantKind][]domain.ChatSession),
		current:  make(map[domain.AssistantKind]string),
	}
}

func (m *mockSessionService) List(_ context.Context, kind domain.AssistantKind) []domain.ChatSession {
	return m.sessions[kind]
}

func (m *mockSessionService) Get(_ context.Context, kind domain.AssistantKind, id string) *domain.ChatSession {
	for i := range m.sessions[kind] {
		if m.sessions[kind][i].ID == id {
			s := m.sessions[kind][i].Clone()
			return &s
		}
	}
	return nil
}

func (m *mockSessionService) Save(_ context.Context, session domain.ChatSession) {
	m.sessions[session.Kind] = append([]domain.ChatSession{session}, m.sessions[session.Kind]...)
}

func (m *mockSessionService) Delete(_ context.Context, _ domain.AssistantKind, _ string) {}

func (m *mockSessionService) CurrentID(kind domain.AssistantKind) string {
	return m.current[kind]
}

func (m *mockSessionService) SetCurrentID(kind domain.AssistantKind, id string) {
	m.current[kind] = id
}

func (m *mockSessionService) New(kind domain.AssistantKind) domain.ChatSession {
	return domain.NewChatSession(kind, "new", time.Now())
}

var testTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// seededSessions returns a service holding two BNS sessions; the second is current.
func seededSessions() *mockSessionService {
	m := newMockSessionService()

	reply := domain.Message{
		ID:        3,
		Sender:    domain.SenderBot,
		Type:      domain.MessageAudioResponse,
		Content:   "http://localhost:5000/static/r.mp3",
		Timestamp: testTime,
		LegalResult: domain.LegalResult{
			MatchedQuery:   "theft",
			BNSSectionInfo: map[string]any{"section": "303"},
		},
	}
	user := domain.Message{
		ID:          2,
		Sender:      domain.SenderUser,
		Type:        domain.MessageCombined,
		Content:     "name: Asha",
		AudioURL:    "file:///cache/a.wav",
		AudioBase64: "data:audio/wav;base64,AAAA",
		Timestamp:   testTime,
	}

	older := domain.NewChatSession(domain.AssistantBNS, "bns_session_1_aaaaaaaaa", testTime)
	newer := domain.NewChatSession(domain.AssistantBNS, "bns_session_2_bbbbbbbbb", testTime)
	newer.Title = "Stolen phone"
	newer.Messages = append(newer.Messages, user, reply)

	m.sessions[domain.AssistantBNS] = []domain.ChatSession{newer, older}
	m.current[domain.AssistantBNS] = newer.ID
	return m
}
