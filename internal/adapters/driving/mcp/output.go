package mcp

import (
	"time"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// SessionSummaryOutput describes one session in a listing.
type SessionSummaryOutput struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    int       `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
	LastMessage time.Time `json:"last_message"`
	Current     bool      `json:"current,omitempty"`
}

// SessionOutput is a full session with its messages.
type SessionOutput struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Title       string          `json:"title"`
	CreatedAt   time.Time       `json:"created_at"`
	LastMessage time.Time       `json:"last_message"`
	Messages    []MessageOutput `json:"messages"`
}

// MessageOutput is one message. Audio payloads are omitted.
type MessageOutput struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Type      string    `json:"type"`
	Text      string    `json:"text,omitempty"`
	AudioURL  string    `json:"audio_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	MatchedSections []string         `json:"matched_sections,omitempty"`
	TranslatedTexts []string         `json:"translated_texts,omitempty"`
	IPCSections     []map[string]any `json:"ipc_sections,omitempty"`
	BNSSections     []map[string]any `json:"bns_sections,omitempty"`
	Language        string           `json:"language,omitempty"`
	PDFEnglishURL   string           `json:"pdf_english_url,omitempty"`
	PDFRegionalURL  string           `json:"pdf_regional_url,omitempty"`
	TranscribedText string           `json:"transcribed_text,omitempty"`
	FormattedOutput string           `json:"formatted_output,omitempty"`
	MatchedQuery    string           `json:"matched_query,omitempty"`
	BNSSectionInfo  map[string]any   `json:"bns_section_info,omitempty"`
}

func summaryOutput(s *domain.ChatSession, currentID string) SessionSummaryOutput {
	return SessionSummaryOutput{
		ID:          s.ID,
		Title:       s.Title,
		Messages:    len(s.Messages),
		CreatedAt:   s.CreatedAt,
		LastMessage: s.LastMessage,
		Current:     s.ID == currentID,
	}
}

func sessionOutput(s *domain.ChatSession) SessionOutput {
	out := SessionOutput{
		ID:          s.ID,
		Kind:        s.Kind.String(),
		Title:       s.Title,
		CreatedAt:   s.CreatedAt,
		LastMessage: s.LastMessage,
		Messages:    make([]MessageOutput, len(s.Messages)),
	}
	for i := range s.Messages {
		out.Messages[i] = messageOutput(&s.Messages[i])
	}
	return out
}

func messageOutput(m *domain.Message) MessageOutput {
	r := m.LegalResult
	return MessageOutput{
		ID:              m.ID,
		Sender:          string(m.Sender),
		Type:            string(m.Type),
		Text:            m.Text(),
		AudioURL:        m.PlaybackURL(),
		Timestamp:       m.Timestamp,
		MatchedSections: r.MatchedSections,
		TranslatedTexts: r.TranslatedTexts,
		IPCSections:     r.IPCSections,
		BNSSections:     r.BNSSections,
		Language:        r.Language,
		PDFEnglishURL:   r.PDFEnglishURL,
		PDFRegionalURL:  r.PDFRegionalURL,
		TranscribedText: r.TranscribedText,
		FormattedOutput: r.FormattedOutput,
		MatchedQuery:    r.MatchedQuery,
		BNSSectionInfo:  r.BNSSectionInfo,
	}
}
