package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
	faintColor   = color.New(color.Faint)
)

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

func printBold(w io.Writer, format string, args ...any) {
	boldColor.Fprintln(w, fmt.Sprintf(format, args...))
}

// terminalWidth returns the stdout width, or fallback when not a terminal.
func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// renderMarkdown renders backend formatted output for the terminal.
// Plain text is returned unchanged when rendering fails.
func renderMarkdown(md string, width int, dark bool) string {
	style := styles.NoTTYStyleConfig
	if term.IsTerminal(int(os.Stdout.Fd())) {
		style = styles.LightStyleConfig
		if dark {
			style = styles.DarkStyleConfig
		}
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
	return out
}

// printMessage writes one chat message.
func printMessage(w io.Writer, msg *domain.Message, baseURL string, dark bool) {
	stamp := faintColor.Sprintf("[%s #%d]", msg.Timestamp.Local().Format("Jan 2 15:04"), msg.ID)

	if msg.Sender == domain.SenderUser {
		label := boldColor.Sprint("You")
		switch msg.Type {
		case domain.MessageAudio:
			fmt.Fprintf(w, "%s %s: 🎙 audio message\n", stamp, label)
		case domain.MessageCombined:
			fmt.Fprintf(w, "%s %s: 🎙 %s\n", stamp, label, msg.Content)
		default:
			fmt.Fprintf(w, "%s %s: %s\n", stamp, label, msg.Content)
		}
		return
	}

	label := infoColor.Sprint("Assistant")
	if msg.Type != domain.MessageAudioResponse {
		if strings.HasPrefix(msg.Content, "Error: ") {
			fmt.Fprintf(w, "%s %s: %s\n", stamp, label, errorColor.Sprint(msg.Content))
			return
		}
		fmt.Fprintf(w, "%s %s: %s\n", stamp, label, msg.Content)
		return
	}

	fmt.Fprintf(w, "%s %s:\n", stamp, label)
	for _, line := range msg.Lines(baseURL) {
		fmt.Fprintf(w, "  %s %s\n", boldColor.Sprint(line.Label+":"), line.Value)
	}
	if url := msg.PlaybackURL(); url != "" {
		fmt.Fprintf(w, "  %s %s\n", boldColor.Sprint("Spoken answer:"), url)
	}
	if msg.FormattedOutput != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderMarkdown(msg.FormattedOutput, terminalWidth(80), dark))
	}
}

// printSession writes a session header and its messages.
func printSession(w io.Writer, session *domain.ChatSession, baseURL string, dark bool) {
	printBold(w, "%s", session.Title)
	faintColor.Fprintf(w, "%s · %d messages · last %s\n\n",
		session.ID, len(session.Messages), session.LastMessage.Local().Format("Jan 2 15:04"))
	for i := range session.Messages {
		printMessage(w, &session.Messages[i], baseURL, dark)
	}
}

// displaySettings returns the configured base URL and theme, falling back to
// defaults when settings cannot be read.
func displaySettings() (string, bool) {
	if settingsService == nil {
		return domain.DefaultAPIURL, false
	}
	s, err := settingsService.Get()
	if err != nil {
		return domain.DefaultAPIURL, false
	}
	return s.APIURL, s.DarkMode
}
