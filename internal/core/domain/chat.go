package domain

import "strings"

// SendInput is what the user submits from the chat input.
// At least one of Text or Audio must be present.
type SendInput struct {
	Text  string
	Audio *AudioAttachment
}

// IsEmpty returns true if there is nothing to send.
func (in SendInput) IsEmpty() bool {
	return strings.TrimSpace(in.Text) == "" && in.Audio == nil
}

// MessageType returns the type of the user message this input produces.
func (in SendInput) MessageType() MessageType {
	switch {
	case in.Audio != nil && strings.TrimSpace(in.Text) != "":
		return MessageCombined
	case in.Audio != nil:
		return MessageAudio
	default:
		return MessageText
	}
}

// ChatRequest is an audio query posted to an assistant endpoint.
type ChatRequest struct {
	Kind   AssistantKind
	Token  string
	Audio  *AudioAttachment
	Fields map[string]string
}

// ChatReply is the structured answer of an assistant endpoint.
type ChatReply struct {
	// AudioURL is the absolute URL of the spoken answer, if any.
	AudioURL string

	// Result holds the legal reference fields.
	Result LegalResult
}

// AuthResult is the backend response to a login or registration.
type AuthResult struct {
	Credentials
	Message string
}

// SessionSummary is a short view of one assistant's history.
type SessionSummary struct {
	Kind        AssistantKind
	Count       int
	RecentTitle string
}

// DashboardSummary is shown after sign-in.
type DashboardSummary struct {
	User     Credentials
	Sessions []SessionSummary
}
