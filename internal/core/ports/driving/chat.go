package driving

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// ChatService runs the conversation flow of an assistant.
// Backend failures are not returned: they are appended to the session
// as "Error: ..." bot messages.
type ChatService interface {
	// Current returns the active session, creating and saving a new one
	// when none is recorded or the recorded one no longer exists.
	Current(ctx context.Context, kind domain.AssistantKind) domain.ChatSession

	// NewChat creates, saves and activates a fresh session.
	NewChat(ctx context.Context, kind domain.AssistantKind) domain.ChatSession

	// Switch activates an existing session.
	Switch(ctx context.Context, kind domain.AssistantKind, id string) (*domain.ChatSession, error)

	// Attach turns audio bytes into a pending attachment with a playback URL.
	Attach(name string, data []byte) (*domain.AudioAttachment, error)

	// StartRecording begins microphone capture.
	StartRecording(ctx context.Context) error

	// StopRecording ends capture and returns the recording as an attachment.
	StopRecording() (*domain.AudioAttachment, error)

	// Send appends the user message and the bot reply to a session.
	// Returns domain.ErrInvalidInput when the input is empty and the
	// context error when the request is cancelled.
	Send(ctx context.Context, kind domain.AssistantKind, sessionID string, in domain.SendInput) (*domain.ChatSession, error)

	// EditAndResend removes a user message and sends the replacement input.
	EditAndResend(
		ctx context.Context, kind domain.AssistantKind, sessionID string, messageID int64, in domain.SendInput,
	) (*domain.ChatSession, error)

	// Reload sends the content of an existing user message again.
	Reload(ctx context.Context, kind domain.AssistantKind, sessionID string, messageID int64) (*domain.ChatSession, error)

	// Rename sets a session title. Blank titles are rejected.
	Rename(ctx context.Context, kind domain.AssistantKind, sessionID, title string) (*domain.ChatSession, error)

	// Delete removes a session and its cached audio. Deleting the active
	// session activates a fresh one, which is returned.
	Delete(ctx context.Context, kind domain.AssistantKind, sessionID string) domain.ChatSession

	// Discard releases the playback URL of an attachment that will not be sent.
	Discard(att *domain.AudioAttachment)

	// Release releases the playback URLs of a session's user audio.
	// Reading the session again creates fresh ones.
	Release(session domain.ChatSession)
}
