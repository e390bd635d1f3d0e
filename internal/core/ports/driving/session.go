package driving

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// SessionService manages the chat history of one or both assistants.
// Storage failures are logged and swallowed: reads return empty results
// and writes become no-ops.
type SessionService interface {
	// List returns hydrated sessions, newest first.
	List(ctx context.Context, kind domain.AssistantKind) []domain.ChatSession

	// Get returns a hydrated session, or nil if it does not exist.
	Get(ctx context.Context, kind domain.AssistantKind, id string) *domain.ChatSession

	// Save strips ephemeral audio URLs and upserts the session,
	// keeping at most domain.MaxSessions per kind.
	Save(ctx context.Context, session domain.ChatSession)

	// Delete removes a session.
	Delete(ctx context.Context, kind domain.AssistantKind, id string)

	// CurrentID returns the active session id, or "" if none.
	CurrentID(kind domain.AssistantKind) string

	// SetCurrentID records the active session id.
	SetCurrentID(kind domain.AssistantKind, id string)

	// New creates an unsaved session holding only the greeting.
	New(kind domain.AssistantKind) domain.ChatSession
}
