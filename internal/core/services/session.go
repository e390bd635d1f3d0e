package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService persists chat sessions and tracks the active one.
// Playback URLs of user audio are created on read and dropped on write.
type SessionService struct {
	store  driven.SessionStore
	config driven.ConfigStore
	blobs  driven.BlobStore
	now    func() time.Time
}

// NewSessionService creates a new session service.
// blobs may be nil, in which case audio is not hydrated.
func NewSessionService(store driven.SessionStore, config driven.ConfigStore, blobs driven.BlobStore) *SessionService {
	return &SessionService{
		store:  store,
		config: config,
		blobs:  blobs,
		now:    time.Now,
	}
}

// SetClock replaces the clock used for new sessions.
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

// List returns hydrated sessions, newest first.
func (s *SessionService) List(ctx context.Context, kind domain.AssistantKind) []domain.ChatSession {
	sessions, err := s.store.List(ctx, kind)
	if err != nil {
		logger.Error("load %s sessions: %v", kind, err)
		return []domain.ChatSession{}
	}
	for i := range sessions {
		s.hydrate(&sessions[i])
	}
	return sessions
}

// Get returns a hydrated session, or nil if it does not exist.
func (s *SessionService) Get(ctx context.Context, kind domain.AssistantKind, id string) *domain.ChatSession {
	session, err := s.store.Get(ctx, kind, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("load %s session %s: %v", kind, id, err)
		}
		return nil
	}
	s.hydrate(session)
	return session
}

// Save strips playback URLs, upserts the session and enforces the cap.
func (s *SessionService) Save(ctx context.Context, session domain.ChatSession) {
	stored := strip(session)
	if err := s.store.Save(ctx, stored); err != nil {
		logger.Error("save %s session %s: %v", session.Kind, session.ID, err)
		return
	}
	if err := s.store.Truncate(ctx, session.Kind, domain.MaxSessions); err != nil {
		logger.Error("truncate %s sessions: %v", session.Kind, err)
	}
	logger.Debug("saved %s session %s (%d messages)", session.Kind, session.ID, len(session.Messages))
}

// Delete removes a session.
func (s *SessionService) Delete(ctx context.Context, kind domain.AssistantKind, id string) {
	if err := s.store.Delete(ctx, kind, id); err != nil {
		logger.Error("delete %s session %s: %v", kind, id, err)
	}
}

// CurrentID returns the active session id.
func (s *SessionService) CurrentID(kind domain.AssistantKind) string {
	return s.config.GetString(kind.CurrentSessionKey())
}

// SetCurrentID records the active session id.
func (s *SessionService) SetCurrentID(kind domain.AssistantKind, id string) {
	if err := s.config.Set(kind.CurrentSessionKey(), id); err != nil {
		logger.Error("set current %s session: %v", kind, err)
	}
}

// PruneAudio drops cached audio that no stored session references.
func (s *SessionService) PruneAudio(ctx context.Context) error {
	if s.blobs == nil {
		return nil
	}
	var keep []string
	for _, kind := range domain.AllAssistantKinds() {
		sessions, err := s.store.List(ctx, kind)
		if err != nil {
			return fmt.Errorf("load %s sessions: %w", kind, err)
		}
		for i := range sessions {
			s.hydrate(&sessions[i])
			for _, msg := range sessions[i].Messages {
				if msg.IsUserAudio() && msg.AudioURL != "" {
					keep = append(keep, msg.AudioURL)
				}
			}
		}
	}
	return s.blobs.Retain(keep)
}

// New creates an unsaved session holding only the greeting.
func (s *SessionService) New(kind domain.AssistantKind) domain.ChatSession {
	now := s.now()
	return domain.NewChatSession(kind, domain.FormatSessionID(kind, now, randomSuffix()), now)
}

// hydrate recreates playback URLs of user audio from their base64 payload.
func (s *SessionService) hydrate(session *domain.ChatSession) {
	if s.blobs == nil {
		return
	}
	for i := range session.Messages {
		msg := &session.Messages[i]
		if !msg.IsUserAudio() || msg.AudioBase64 == "" {
			continue
		}
		mimeType, data, err := domain.DecodeDataURL(msg.AudioBase64)
		if err != nil {
			logger.Warn("message %d in session %s: %v", msg.ID, session.ID, err)
			continue
		}
		url, err := s.blobs.CreateURL(data, mimeType)
		if err != nil {
			logger.Warn("create playback url for message %d: %v", msg.ID, err)
			continue
		}
		msg.AudioURL = url
		if msg.Type == domain.MessageAudio {
			msg.Content = url
		}
	}
}

// strip returns a copy without ephemeral playback URLs.
func strip(session domain.ChatSession) domain.ChatSession {
	out := session.Clone()
	for i := range out.Messages {
		msg := &out.Messages[i]
		if !msg.IsUserAudio() {
			continue
		}
		msg.AudioURL = ""
		if msg.Type == domain.MessageAudio {
			msg.Content = ""
		}
	}
	return out
}
