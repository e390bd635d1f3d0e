package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

func init() {
	for _, kind := range domain.AllAssistantKinds() {
		rootCmd.AddCommand(newAssistantCmd(kind))
	}
}

// assistantOptions holds the flags shared by an assistant's subcommands.
type assistantOptions struct {
	kind    domain.AssistantKind
	session string
	audio   string
	record  bool
	fields  []string
	yes     bool
}

// newAssistantCmd builds the command tree for one assistant.
func newAssistantCmd(kind domain.AssistantKind) *cobra.Command {
	opts := &assistantOptions{kind: kind}

	cmd := &cobra.Command{
		Use:   kind.String(),
		Short: "Chat with the " + kind.Description(),
		Long: fmt.Sprintf(`Chat with the %s.

Send a voice recording of your situation, optionally with text. Text lines
in "key: value" form are sent to the assistant as your details (see
'vfw %s template'). Text without audio gets a local acknowledgement only.

Conversations are kept locally; the most recent %d are retained.`,
			kind.Description(), kind, domain.MaxSessions),
		Annotations: protected(),
	}
	cmd.PersistentFlags().StringVarP(&opts.session, "session", "s", "", "session id (default: current session)")

	cmd.AddCommand(
		newSendCmd(opts),
		newSessionsCmd(opts),
		newShowCmd(opts),
		newNewCmd(opts),
		newUseCmd(opts),
		newRenameCmd(opts),
		newDeleteCmd(opts),
		newEditCmd(opts),
		newReloadCmd(opts),
		newPlayCmd(opts),
		newTemplateCmd(opts),
	)
	return cmd
}

func newSendCmd(opts *assistantOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Send a message",
		Example: fmt.Sprintf(`  vfw %[1]s send --audio complaint.wav
  vfw %[1]s send --record
  vfw %[1]s send --audio complaint.wav --field name=Asha --field location=Pune`, opts.kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, opts, args)
		},
	}
	addInputFlags(cmd, opts)
	return cmd
}

func addInputFlags(cmd *cobra.Command, opts *assistantOptions) {
	cmd.Flags().StringVarP(&opts.audio, "audio", "a", "", "audio file to attach")
	cmd.Flags().BoolVarP(&opts.record, "record", "r", false, "record from the microphone (Enter stops)")
	cmd.Flags().StringArrayVarP(&opts.fields, "field", "f", nil, "detail as key=value (repeatable)")
}

func runSend(cmd *cobra.Command, opts *assistantOptions, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	ctx := cmd.Context()

	in, err := readInput(cmd, opts, args)
	if err != nil {
		return err
	}
	if in.IsEmpty() {
		return fmt.Errorf("%w: give text, --audio or --record", domain.ErrInvalidInput)
	}

	session, err := resolveSession(ctx, opts)
	if err != nil {
		if in.Audio != nil {
			chatService.Discard(in.Audio)
		}
		return err
	}
	seen := messageIDs(session)

	if in.Audio != nil {
		printInfo(cmd.OutOrStdout(), "Sending to the %s...", opts.kind.Description())
	}
	updated, err := chatService.Send(ctx, opts.kind, session.ID, in)
	return printExchange(cmd, updated, seen, err)
}

func newEditCmd(opts *assistantOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <message-id> [text...]",
		Short: "Edit one of your messages and send it again",
		Long: `Replace one of your messages and send the replacement.

The replacement keeps the message's type. Audio messages reuse the original
recording unless --audio or --record is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, args)
		},
	}
	addInputFlags(cmd, opts)
	return cmd
}

func runEdit(cmd *cobra.Command, opts *assistantOptions, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	ctx := cmd.Context()

	messageID, err := parseMessageID(args[0])
	if err != nil {
		return err
	}
	in, err := readInput(cmd, opts, args[1:])
	if err != nil {
		return err
	}
	session, err := resolveSession(ctx, opts)
	if err != nil {
		if in.Audio != nil {
			chatService.Discard(in.Audio)
		}
		return err
	}
	seen := messageIDs(session)

	updated, err := chatService.EditAndResend(ctx, opts.kind, session.ID, messageID, in)
	if updated == nil && err != nil {
		return err
	}
	return printExchange(cmd, updated, seen, err)
}

func newReloadCmd(opts *assistantOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reload <message-id>",
		Short: "Send one of your messages again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if chatService == nil {
				return errors.New("chat service not configured")
			}
			ctx := cmd.Context()

			messageID, err := parseMessageID(args[0])
			if err != nil {
				return err
			}
			session, err := resolveSession(ctx, opts)
			if err != nil {
				return err
			}
			seen := messageIDs(session)

			updated, err := chatService.Reload(ctx, opts.kind, session.ID, messageID)
			if updated == nil && err != nil {
				return err
			}
			return printExchange(cmd, updated, seen, err)
		},
	}
}

func newSessionsCmd(opts *assistantOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"history", "ls"},
		Short:   "List conversations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessionService == nil {
				return errors.New("session service not configured")
			}
			out := cmd.OutOrStdout()
			sessions := sessionService.List(cmd.Context(), opts.kind)
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No conversations yet.")
				return nil
			}

			current := sessionService.CurrentID(opts.kind)
			for i := range sessions {
				s := &sessions[i]
				marker := " "
				if s.ID == current {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-40s %-34s %3d msgs  %s\n",
					marker, s.ID, s.Title, len(s.Messages), s.LastMessage.Local().Format("Jan 2 15:04"))
			}
			return nil
		},
	}
}

func newShowCmd(opts *assistantOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show a conversation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := *opts
			if len(args) == 1 {
				target.session = args[0]
			}
			session, err := resolveSession(cmd.Context(), &target)
			if err != nil {
				return err
			}
			baseURL, dark := displaySettings()
			printSession(cmd.OutOrStdout(), session, baseURL, dark)
			return nil
		},
	}
}

func newNewCmd(opts *assistantOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if chatService == nil {
				return errors.New("chat service not configured")
			}
			session := chatService.NewChat(cmd.Context(), opts.kind)
			printSuccess(cmd.OutOrStdout(), "Started %s (%s)", session.Title, session.ID)
			return nil
		},
	}
}

func newUseCmd(opts *assistantOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <session-id>",
		Short: "Switch to a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if chatService == nil {
				return errors.New("chat service not configured")
			}
			session, err := chatService.Switch(cmd.Context(), opts.kind, args[0])
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Switched to %s", session.Title)
			return nil
		},
	}
}

func newRenameCmd(opts *assistantOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <title...>",
		Short: "Rename a conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if chatService == nil {
				return errors.New("chat service not configured")
			}
			ctx := cmd.Context()
			session, err := resolveSession(ctx, opts)
			if err != nil {
				return err
			}
			renamed, err := chatService.Rename(ctx, opts.kind, session.ID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Renamed to %s", renamed.Title)
			return nil
		},
	}
}

func newDeleteCmd(opts *assistantOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if chatService == nil || sessionService == nil {
				return errors.New("chat service not configured")
			}
			ctx := cmd.Context()
			session := sessionService.Get(ctx, opts.kind, args[0])
			if session == nil {
				return fmt.Errorf("session %s: %w", args[0], domain.ErrNotFound)
			}
			if !opts.yes {
				ok, err := promptConfirm(fmt.Sprintf("Delete %q?", session.Title), false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			current := chatService.Delete(ctx, opts.kind, args[0])
			out := cmd.OutOrStdout()
			printSuccess(out, "Deleted %s", session.Title)
			printInfo(out, "Current conversation: %s (%s)", current.Title, current.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newPlayCmd(opts *assistantOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play <message-id>",
		Short: "Play the audio of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if playbackService == nil {
				return errors.New("playback service not configured")
			}
			ctx := cmd.Context()
			messageID, err := parseMessageID(args[0])
			if err != nil {
				return err
			}
			session, err := resolveSession(ctx, opts)
			if err != nil {
				return err
			}
			msg, ok := session.Message(messageID)
			if !ok {
				return fmt.Errorf("message %d: %w", messageID, domain.ErrNotFound)
			}
			url := msg.PlaybackURL()
			if url == "" {
				return fmt.Errorf("message %d: %w", messageID, domain.ErrNoAudio)
			}
			printInfo(cmd.OutOrStdout(), "Playing %s", url)
			return playbackService.Play(ctx, url)
		},
	}
}

func newTemplateCmd(opts *assistantOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print the details form to fill in",
		Long: `Print the details form. Fill in the values and pass the text to 'send'
along with your recording, or use --field key=value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), domain.DefaultFormTemplate)
			return nil
		},
	}
}

// readInput gathers text, fields and audio from arguments and flags.
func readInput(cmd *cobra.Command, opts *assistantOptions, args []string) (domain.SendInput, error) {
	text := strings.Join(args, " ")
	if len(opts.fields) > 0 {
		lines, err := fieldLines(opts.fields)
		if err != nil {
			return domain.SendInput{}, err
		}
		if text != "" {
			lines = append([]string{text}, lines...)
		}
		text = strings.Join(lines, "\n")
	}
	in := domain.SendInput{Text: text}

	switch {
	case opts.audio != "" && opts.record:
		return in, fmt.Errorf("%w: use either --audio or --record", domain.ErrInvalidInput)
	case opts.audio != "":
		data, err := os.ReadFile(opts.audio)
		if err != nil {
			return in, fmt.Errorf("read audio: %w", err)
		}
		att, err := chatService.Attach(filepath.Base(opts.audio), data)
		if err != nil {
			return in, err
		}
		in.Audio = att
	case opts.record:
		att, err := record(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return in, err
		}
		in.Audio = att
	}
	return in, nil
}

// record captures audio until a line is read from in.
func record(ctx context.Context, in io.Reader, out io.Writer) (*domain.AudioAttachment, error) {
	if err := chatService.StartRecording(ctx); err != nil {
		return nil, fmt.Errorf("start recording: %w", err)
	}
	printInfo(out, "Recording... press Enter to stop.")
	_, _ = bufio.NewReader(in).ReadString('\n')

	att, err := chatService.StopRecording()
	if err != nil {
		return nil, fmt.Errorf("stop recording: %w", err)
	}
	printSuccess(out, "Recorded %d bytes.", len(att.Data))
	return att, nil
}

// fieldLines converts key=value flags into "key: value" form lines.
func fieldLines(fields []string) ([]string, error) {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: field %q must be key=value", domain.ErrInvalidInput, f)
		}
		lines = append(lines, strings.TrimSpace(key)+": "+strings.TrimSpace(value))
	}
	return lines, nil
}

// resolveSession returns the session named by --session, or the current one.
func resolveSession(ctx context.Context, opts *assistantOptions) (*domain.ChatSession, error) {
	if opts.session == "" {
		if chatService == nil {
			return nil, errors.New("chat service not configured")
		}
		session := chatService.Current(ctx, opts.kind)
		return &session, nil
	}
	if sessionService == nil {
		return nil, errors.New("session service not configured")
	}
	session := sessionService.Get(ctx, opts.kind, opts.session)
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", opts.session, domain.ErrNotFound)
	}
	return session, nil
}

func parseMessageID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: message id %q is not a number", domain.ErrInvalidInput, s)
	}
	return id, nil
}

func messageIDs(session *domain.ChatSession) map[int64]bool {
	ids := make(map[int64]bool, len(session.Messages))
	for i := range session.Messages {
		ids[session.Messages[i].ID] = true
	}
	return ids
}

// printExchange prints messages not present before the request.
func printExchange(cmd *cobra.Command, session *domain.ChatSession, seen map[int64]bool, sendErr error) error {
	out := cmd.OutOrStdout()
	if session != nil {
		baseURL, dark := displaySettings()
		for i := range session.Messages {
			if !seen[session.Messages[i].ID] {
				printMessage(out, &session.Messages[i], baseURL, dark)
			}
		}
	}
	if sendErr != nil {
		if errors.Is(sendErr, context.Canceled) || errors.Is(sendErr, context.DeadlineExceeded) {
			printWarning(out, "Request cancelled.")
		}
		return sendErr
	}
	return nil
}
