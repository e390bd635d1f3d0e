package driven

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// SessionStore persists chat sessions, one ordered list per assistant kind.
// Hydration is the caller's concern. Adapters may drop the ephemeral
// Message.AudioURL; every other field round-trips.
type SessionStore interface {
	// List returns all sessions of a kind, newest first by insertion.
	List(ctx context.Context, kind domain.AssistantKind) ([]domain.ChatSession, error)

	// Get retrieves a session by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, kind domain.AssistantKind, id string) (*domain.ChatSession, error)

	// Save upserts a session. An existing session keeps its position;
	// a new session is placed at the front of its kind's list.
	Save(ctx context.Context, session domain.ChatSession) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, kind domain.AssistantKind, id string) error

	// Truncate keeps only the newest keep sessions of a kind.
	Truncate(ctx context.Context, kind domain.AssistantKind, keep int) error
}
