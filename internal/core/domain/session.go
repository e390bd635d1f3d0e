package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxSessions is the number of sessions kept per assistant.
	// Older sessions are evicted by truncation, not by recency of use.
	MaxSessions = 50

	// TitleMaxLength is the number of characters kept from the first user
	// message when deriving a title.
	TitleMaxLength = 30

	// titleEllipsis is appended to truncated titles.
	titleEllipsis = "..."

	// GreetingMessageID is the id of the greeting in a fresh session.
	GreetingMessageID = 1
)

// ChatSession is a persisted conversation thread with one assistant.
type ChatSession struct {
	ID          string        `json:"id"`
	Kind        AssistantKind `json:"kind"`
	Title       string        `json:"title"`
	Messages    []Message     `json:"messages"`
	CreatedAt   time.Time     `json:"createdAt"`
	LastMessage time.Time     `json:"lastMessage"`
}

// NewChatSession creates an empty session holding only the greeting.
func NewChatSession(kind AssistantKind, id string, now time.Time) ChatSession {
	return ChatSession{
		ID:          id,
		Kind:        kind,
		Title:       kind.DefaultTitle(),
		CreatedAt:   now,
		LastMessage: now,
		Messages: []Message{{
			ID:        GreetingMessageID,
			Sender:    SenderBot,
			Type:      MessageText,
			Content:   kind.Greeting(),
			Timestamp: now,
		}},
	}
}

// FormatSessionID builds a session id from a timestamp and a random suffix.
func FormatSessionID(kind AssistantKind, now time.Time, suffix string) string {
	return fmt.Sprintf("%s%d_%s", kind.SessionIDPrefix(), now.UnixMilli(), suffix)
}

// GenerateSessionTitle derives a title from the first user text message.
// Titles longer than TitleMaxLength characters are cut and suffixed with
// an ellipsis. The kind's default title is returned when no user text exists.
func GenerateSessionTitle(kind AssistantKind, messages []Message) string {
	for i := range messages {
		msg := &messages[i]
		if msg.Sender != SenderUser || msg.Type != MessageText {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		runes := []rune(content)
		if len(runes) > TitleMaxLength {
			return string(runes[:TitleMaxLength]) + titleEllipsis
		}
		return content
	}
	return kind.DefaultTitle()
}

// HasMessage reports whether a message with the given id exists.
func (s *ChatSession) HasMessage(id int64) bool {
	return s.indexOf(id) >= 0
}

// Message returns the message with the given id.
func (s *ChatSession) Message(id int64) (*Message, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return &s.Messages[idx], true
}

// AppendMessage adds a message to the end of the session.
// Messages whose id already exists are ignored and false is returned.
// The title is derived once the session holds exactly two messages.
func (s *ChatSession) AppendMessage(msg Message) bool {
	if s.HasMessage(msg.ID) {
		return false
	}
	s.Messages = append(s.Messages, msg)
	s.LastMessage = msg.Timestamp
	if len(s.Messages) == 2 {
		s.Title = GenerateSessionTitle(s.Kind, s.Messages)
	}
	return true
}

// RemoveMessage deletes the message with the given id.
func (s *ChatSession) RemoveMessage(id int64) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.Messages = append(s.Messages[:idx:idx], s.Messages[idx+1:]...)
	return true
}

// Rename sets a new title. Blank titles are rejected.
func (s *ChatSession) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	s.Title = title
	return nil
}

// LastMessageID returns the id of the final message, or 0 if empty.
func (s *ChatSession) LastMessageID() int64 {
	if len(s.Messages) == 0 {
		return 0
	}
	return s.Messages[len(s.Messages)-1].ID
}

// Clone returns a copy whose message slice can be modified independently.
func (s ChatSession) Clone() ChatSession {
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	s.Messages = msgs
	return s
}

func (s *ChatSession) indexOf(id int64) int {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			return i
		}
	}
	return -1
}
