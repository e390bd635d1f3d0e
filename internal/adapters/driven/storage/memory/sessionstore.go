package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Each kind holds a slice ordered newest first.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.AssistantKind][]domain.ChatSession
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.AssistantKind][]domain.ChatSession),
	}
}

// List returns all sessions of a kind, newest first.
func (s *SessionStore) List(_ context.Context, kind domain.AssistantKind) ([]domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.sessions[kind]
	result := make([]domain.ChatSession, 0, len(list))
	for i := range list {
		result = append(result, list[i].Clone())
	}
	return result, nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, kind domain.AssistantKind, id string) (*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := indexOf(s.sessions[kind], id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	session := s.sessions[kind][idx].Clone()
	return &session, nil
}

// Save upserts a session in place or inserts it at the front.
func (s *SessionStore) Save(_ context.Context, session domain.ChatSession) error {
	if !session.Kind.IsValid() {
		return domain.ErrUnsupportedKind
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.sessions[session.Kind]
	if idx := indexOf(list, session.ID); idx >= 0 {
		list[idx] = session.Clone()
		return nil
	}
	s.sessions[session.Kind] = append([]domain.ChatSession{session.Clone()}, list...)
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, kind domain.AssistantKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.sessions[kind]
	if idx := indexOf(list, id); idx >= 0 {
		s.sessions[kind] = append(list[:idx:idx], list[idx+1:]...)
	}
	return nil
}

// Truncate keeps only the newest keep sessions of a kind.
func (s *SessionStore) Truncate(_ context.Context, kind domain.AssistantKind, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep < 0 {
		keep = 0
	}
	if list := s.sessions[kind]; len(list) > keep {
		s.sessions[kind] = list[:keep:keep]
	}
	return nil
}

func indexOf(list []domain.ChatSession, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
