package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	gstyles "github.com/charmbracelet/glamour/styles"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

const errorPrefix = "Error: "

// sectionLabels are the result lines that name legal sections.
var sectionLabels = map[string]bool{
	"Matched sections": true,
	"IPC section":      true,
	"BNS section":      true,
}

// transcript renders every message of a session for the viewport.
func transcript(s *styles.Styles, session *domain.ChatSession, baseURL string, width int, dark bool) string {
	blocks := make([]string, 0, len(session.Messages))
	for i := range session.Messages {
		blocks = append(blocks, renderMessage(s, &session.Messages[i], baseURL, width, dark))
	}
	return strings.Join(blocks, "\n\n")
}

func renderMessage(s *styles.Styles, msg *domain.Message, baseURL string, width int, dark bool) string {
	stamp := s.Muted.Render(fmt.Sprintf("#%d · %s", msg.ID, msg.Timestamp.Local().Format("Jan 2 15:04")))

	if msg.Sender == domain.SenderUser {
		header := s.UserMessage.Render("You") + " " + stamp
		switch msg.Type {
		case domain.MessageAudio:
			return header + "\n" + s.Muted.Render("🎙 voice message")
		case domain.MessageCombined:
			return header + "\n" + s.Muted.Render("🎙 ") + msg.Content
		default:
			return header + "\n" + msg.Content
		}
	}

	header := s.BotMessage.Render("Assistant") + " " + stamp
	if msg.Type != domain.MessageAudioResponse {
		if strings.HasPrefix(msg.Content, errorPrefix) {
			return header + "\n" + s.Error.Render(msg.Content)
		}
		return header + "\n" + msg.Content
	}

	var b strings.Builder
	b.WriteString(header)
	for _, line := range msg.Lines(baseURL) {
		value := line.Value
		if sectionLabels[line.Label] {
			value = s.Section.Render(value)
		}
		b.WriteString("\n")
		b.WriteString(s.Label.Render(line.Label+":") + " " + value)
	}
	if msg.PlaybackURL() != "" {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("🔊 spoken answer available (ctrl+p to play)"))
	}
	if msg.FormattedOutput != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(msg.FormattedOutput, width, dark))
	}
	return b.String()
}

func renderMarkdown(md string, width int, dark bool) string {
	style := gstyles.LightStyleConfig
	if dark {
		style = gstyles.DarkStyleConfig
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
