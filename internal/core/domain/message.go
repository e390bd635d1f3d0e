package domain

import "time"

// Sender identifies who authored a message.
type Sender string

// Message senders.
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// MessageType tags the content carried by a message.
type MessageType string

// Message types.
const (
	// MessageText carries plain text in Content.
	MessageText MessageType = "text"

	// MessageAudio carries a playback URL in Content.
	MessageAudio MessageType = "audio"

	// MessageCombined carries text in Content and audio in AudioURL.
	MessageCombined MessageType = "combined"

	// MessageAudioResponse is a bot reply: spoken answer URL in Content
	// plus the structured legal result.
	MessageAudioResponse MessageType = "audio-response"
)

// IsValid returns true if the message type is recognised.
func (t MessageType) IsValid() bool {
	switch t {
	case MessageText, MessageAudio, MessageCombined, MessageAudioResponse:
		return true
	default:
		return false
	}
}

// HasUserAudio returns true for types that carry user-supplied audio.
func (t MessageType) HasUserAudio() bool {
	return t == MessageAudio || t == MessageCombined
}

// Message is one turn in a chat session.
type Message struct {
	ID        int64       `json:"id"`
	Sender    Sender      `json:"sender"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`

	// AudioURL is an ephemeral playback handle. It is never persisted.
	AudioURL string `json:"audioUrl,omitempty"`

	// AudioBase64 is the persisted audio as a data URL.
	AudioBase64 string `json:"audioBase64,omitempty"`

	// Legal result fields, populated only on bot responses.
	LegalResult
}

// IsUserAudio reports whether the message is user-authored audio that
// must survive a reload through its base64 payload.
func (m *Message) IsUserAudio() bool {
	return m.Sender == SenderUser && m.Type.HasUserAudio()
}

// PlaybackURL returns the URL a player should open for this message.
func (m *Message) PlaybackURL() string {
	switch m.Type {
	case MessageAudio, MessageAudioResponse:
		if m.AudioURL != "" {
			return m.AudioURL
		}
		return m.Content
	case MessageCombined:
		return m.AudioURL
	default:
		return ""
	}
}

// Text returns the textual content of the message, if any.
func (m *Message) Text() string {
	switch m.Type {
	case MessageText, MessageCombined:
		return m.Content
	default:
		return ""
	}
}

// LegalResult holds the structured fields returned by the legal backend.
// Missing fields are left empty.
type LegalResult struct {
	MatchedSections []string         `json:"matchedSections,omitempty"`
	TranslatedTexts []string         `json:"translatedTexts,omitempty"`
	IPCSections     []map[string]any `json:"ipcSections,omitempty"`
	BNSSections     []map[string]any `json:"bns_sections,omitempty"`
	Language        string           `json:"language,omitempty"`
	PDFEnglishURL   string           `json:"pdfEnglishUrl,omitempty"`
	PDFRegionalURL  string           `json:"pdfRegionalUrl,omitempty"`
	TranscribedText string           `json:"transcribedText,omitempty"`
	FormattedOutput string           `json:"formattedOutput,omitempty"`
	MatchedQuery    string           `json:"matchedQuery,omitempty"`
	BNSSectionInfo  map[string]any   `json:"bnsSectionInfo,omitempty"`
}

// IsEmpty returns true if no legal field was populated.
func (r *LegalResult) IsEmpty() bool {
	return len(r.MatchedSections) == 0 &&
		len(r.TranslatedTexts) == 0 &&
		len(r.IPCSections) == 0 &&
		len(r.BNSSections) == 0 &&
		r.Language == "" &&
		r.PDFEnglishURL == "" &&
		r.PDFRegionalURL == "" &&
		r.TranscribedText == "" &&
		r.FormattedOutput == "" &&
		r.MatchedQuery == "" &&
		len(r.BNSSectionInfo) == 0
}
