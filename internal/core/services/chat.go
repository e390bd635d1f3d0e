package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

const (
	recordedAudioName = "Recorded Audio"
	reloadedAudioName = "Reloaded Audio"
)

// ChatService runs the conversation flow of both assistants.
type ChatService struct {
	sessions driving.SessionService
	auth     driving.AuthService
	backend  driven.Backend
	blobs    driven.BlobStore
	recorder driven.Recorder
	ids      *IDGenerator
	now      func() time.Time
}

// NewChatService creates a new chat service.
// recorder may be nil when no capture tool is available.
func NewChatService(
	sessions driving.SessionService,
	auth driving.AuthService,
	backend driven.Backend,
	blobs driven.BlobStore,
	recorder driven.Recorder,
) *ChatService {
	return &ChatService{
		sessions: sessions,
		auth:     auth,
		backend:  backend,
		blobs:    blobs,
		recorder: recorder,
		ids:      NewIDGenerator(time.Now),
		now:      time.Now,
	}
}

// SetClock replaces the clock used for message ids and timestamps.
func (s *ChatService) SetClock(now func() time.Time) {
	s.now = now
	s.ids = NewIDGenerator(now)
}

// Current returns the active session, creating one when needed.
func (s *ChatService) Current(ctx context.Context, kind domain.AssistantKind) domain.ChatSession {
	if id := s.sessions.CurrentID(kind); id != "" {
		if session := s.sessions.Get(ctx, kind, id); session != nil {
			return *session
		}
		logger.Debug("current %s session %s no longer exists", kind, id)
	}
	return s.NewChat(ctx, kind)
}

// NewChat creates, saves and activates a fresh session.
func (s *ChatService) NewChat(ctx context.Context, kind domain.AssistantKind) domain.ChatSession {
	session := s.sessions.New(kind)
	s.sessions.Save(ctx, session)
	s.sessions.SetCurrentID(kind, session.ID)
	return session
}

// Switch activates an existing session.
func (s *ChatService) Switch(ctx context.Context, kind domain.AssistantKind, id string) (*domain.ChatSession, error) {
	session := s.sessions.Get(ctx, kind, id)
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	s.sessions.SetCurrentID(kind, id)
	return session, nil
}

// Attach turns audio bytes into a pending attachment with a playback URL.
func (s *ChatService) Attach(name string, data []byte) (*domain.AudioAttachment, error) {
	att, err := domain.NewAudioAttachment(name, "", data)
	if err != nil {
		return nil, err
	}
	s.attachURL(att)
	return att, nil
}

// StartRecording begins microphone capture.
func (s *ChatService) StartRecording(ctx context.Context) error {
	if s.recorder == nil {
		return domain.ErrRecorderUnavailable
	}
	return s.recorder.Start(ctx)
}

// StopRecording ends capture and returns the recording as an attachment.
func (s *ChatService) StopRecording() (*domain.AudioAttachment, error) {
	if s.recorder == nil {
		return nil, domain.ErrRecorderUnavailable
	}
	data, err := s.recorder.Stop()
	if err != nil {
		return nil, err
	}
	att, err := domain.NewAudioAttachment(recordedAudioName, domain.DefaultAudioMIMEType, data)
	if err != nil {
		return nil, err
	}
	s.attachURL(att)
	return att, nil
}

// Send appends the user message and the bot reply to a session.
func (s *ChatService) Send(
	ctx context.Context, kind domain.AssistantKind, sessionID string, in domain.SendInput,
) (*domain.ChatSession, error) {
	if in.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to send", domain.ErrInvalidInput)
	}
	session := s.sessions.Get(ctx, kind, sessionID)
	if session == nil {
		s.Discard(in.Audio)
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return s.send(ctx, session, in)
}

// EditAndResend removes a user message and sends its replacement.
// The replacement keeps the original message's type: text edits resend
// text, audio edits resend audio, combined edits resend both. When in
// carries no audio the original recording is reused. Supplied audio that
// is not sent is discarded.
func (s *ChatService) EditAndResend(
	ctx context.Context, kind domain.AssistantKind, sessionID string, messageID int64, in domain.SendInput,
) (*domain.ChatSession, error) {
	session, original, err := s.userMessage(ctx, kind, sessionID, messageID)
	if err != nil {
		s.Discard(in.Audio)
		return nil, err
	}
	if in.Audio == nil && original.AudioBase64 != "" {
		in.Audio, err = s.restoreAudio("Edit Audio", original.AudioBase64)
		if err != nil {
			return nil, err
		}
	}
	resend, err := inputFor(original.Type, in)
	if resend.Audio != in.Audio || err != nil {
		s.Discard(in.Audio)
	}
	if err != nil {
		return nil, err
	}

	session.RemoveMessage(messageID)
	s.sessions.Save(ctx, *session)
	return s.send(ctx, session, resend)
}

// Reload sends the content of an existing user message again.
func (s *ChatService) Reload(
	ctx context.Context, kind domain.AssistantKind, sessionID string, messageID int64,
) (*domain.ChatSession, error) {
	session, original, err := s.userMessage(ctx, kind, sessionID, messageID)
	if err != nil {
		return nil, err
	}
	in := domain.SendInput{Text: original.Text()}
	if original.AudioBase64 != "" {
		in.Audio, err = s.restoreAudio(reloadedAudioName, original.AudioBase64)
		if err != nil {
			return nil, err
		}
	}
	resend, err := inputFor(original.Type, in)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, session, resend)
}

// Rename sets a session title.
func (s *ChatService) Rename(
	ctx context.Context, kind domain.AssistantKind, sessionID, title string,
) (*domain.ChatSession, error) {
	session := s.sessions.Get(ctx, kind, sessionID)
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	if err := session.Rename(title); err != nil {
		return nil, err
	}
	s.sessions.Save(ctx, *session)
	return session, nil
}

// Delete removes a session and its cached audio, replacing it when it was
// the active one.
func (s *ChatService) Delete(ctx context.Context, kind domain.AssistantKind, sessionID string) domain.ChatSession {
	if session := s.sessions.Get(ctx, kind, sessionID); session != nil {
		s.Release(*session)
	}
	s.sessions.Delete(ctx, kind, sessionID)
	if s.sessions.CurrentID(kind) == sessionID {
		return s.NewChat(ctx, kind)
	}
	return s.Current(ctx, kind)
}

// Discard releases the playback URL of an attachment that will not be sent.
func (s *ChatService) Discard(att *domain.AudioAttachment) {
	if att == nil {
		return
	}
	s.revoke(att.URL)
}

// Release releases the playback URLs of a session's user audio.
func (s *ChatService) Release(session domain.ChatSession) {
	for i := range session.Messages {
		if msg := &session.Messages[i]; msg.IsUserAudio() {
			s.revoke(msg.AudioURL)
		}
	}
}

func (s *ChatService) revoke(url string) {
	if s.blobs == nil || url == "" {
		return
	}
	if err := s.blobs.Revoke(url); err != nil {
		logger.Warn("release %s: %v", url, err)
	}
}

func (s *ChatService) send(ctx context.Context, session *domain.ChatSession, in domain.SendInput) (*domain.ChatSession, error) {
	userMsg := s.userMessageFor(session, in)
	session.AppendMessage(userMsg)
	s.sessions.Save(ctx, *session)

	reply, err := s.respond(ctx, session.Kind, userMsg.ID, in)
	if err != nil {
		return session, err
	}

	// Another surface may have renamed or extended the session meanwhile.
	if latest := s.sessions.Get(ctx, session.Kind, session.ID); latest != nil {
		session = latest
	}
	session.AppendMessage(reply)
	s.sessions.Save(ctx, *session)
	return session, nil
}

func (s *ChatService) userMessageFor(session *domain.ChatSession, in domain.SendInput) domain.Message {
	msg := domain.Message{
		ID:        s.ids.Next(maxMessageID(session)),
		Sender:    domain.SenderUser,
		Type:      in.MessageType(),
		Timestamp: s.now(),
	}
	switch msg.Type {
	case domain.MessageAudio:
		msg.Content = in.Audio.URL
		msg.AudioURL = in.Audio.URL
		msg.AudioBase64 = in.Audio.Base64
	case domain.MessageCombined:
		msg.Content = in.Text
		msg.AudioURL = in.Audio.URL
		msg.AudioBase64 = in.Audio.Base64
	default:
		msg.Content = in.Text
	}
	return msg
}

// respond produces the bot reply. Backend failures become an error
// message; only cancellation is returned as an error.
func (s *ChatService) respond(ctx context.Context, kind domain.AssistantKind, userID int64, in domain.SendInput) (domain.Message, error) {
	reply := domain.Message{
		ID:     s.ids.Next(userID),
		Sender: domain.SenderBot,
		Type:   domain.MessageText,
	}

	if in.Audio == nil {
		reply.Content = fmt.Sprintf("I understand you're asking about \"%s\". Let me help you with that.", in.Text)
		reply.Timestamp = s.now()
		return reply, nil
	}

	logger.Section("Send " + kind.String())
	result, err := s.sendAudio(ctx, kind, in)
	reply.Timestamp = s.now()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			logger.Info("request cancelled")
			return domain.Message{}, ctxErr
		}
		logger.Warn("send audio: %v", err)
		reply.Content = "Error: " + errorMessage(err)
		return reply, nil
	}

	reply.Type = domain.MessageAudioResponse
	reply.Content = result.AudioURL
	reply.LegalResult = result.Result
	return reply, nil
}

func (s *ChatService) sendAudio(ctx context.Context, kind domain.AssistantKind, in domain.SendInput) (*domain.ChatReply, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	var token string
	if s.auth != nil {
		if creds := s.auth.Current(); creds != nil {
			token = creds.Token
		}
	}
	fields := domain.ParseFormFields(in.Text)
	logger.Debug("audio %s (%d bytes), %d form fields", in.Audio.Name, len(in.Audio.Data), len(fields))
	return s.backend.SendAudio(ctx, domain.ChatRequest{
		Kind:   kind,
		Token:  token,
		Audio:  in.Audio,
		Fields: fields,
	})
}

func (s *ChatService) userMessage(
	ctx context.Context, kind domain.AssistantKind, sessionID string, messageID int64,
) (*domain.ChatSession, *domain.Message, error) {
	session := s.sessions.Get(ctx, kind, sessionID)
	if session == nil {
		return nil, nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	msg, ok := session.Message(messageID)
	if !ok {
		return nil, nil, fmt.Errorf("message %d: %w", messageID, domain.ErrNotFound)
	}
	if msg.Sender != domain.SenderUser {
		return nil, nil, fmt.Errorf("%w: only your own messages can be resent", domain.ErrInvalidInput)
	}
	original := *msg
	return session, &original, nil
}

func (s *ChatService) restoreAudio(name, dataURL string) (*domain.AudioAttachment, error) {
	att, err := domain.AttachmentFromDataURL(name, dataURL)
	if err != nil {
		return nil, err
	}
	s.attachURL(att)
	return att, nil
}

func (s *ChatService) attachURL(att *domain.AudioAttachment) {
	if s.blobs == nil {
		return
	}
	url, err := s.blobs.CreateURL(att.Data, att.MIMEType)
	if err != nil {
		logger.Warn("create playback url for %s: %v", att.Name, err)
		return
	}
	att.URL = url
}

// inputFor shapes a resend so it matches the original message type.
func inputFor(t domain.MessageType, in domain.SendInput) (domain.SendInput, error) {
	switch t {
	case domain.MessageText:
		if strings.TrimSpace(in.Text) == "" {
			return in, fmt.Errorf("%w: message text is empty", domain.ErrInvalidInput)
		}
		return domain.SendInput{Text: in.Text}, nil
	case domain.MessageAudio:
		if in.Audio == nil {
			return in, domain.ErrNoAudio
		}
		return domain.SendInput{Audio: in.Audio}, nil
	case domain.MessageCombined:
		if in.Audio == nil {
			return in, domain.ErrNoAudio
		}
		return in, nil
	default:
		return in, fmt.Errorf("%w: cannot resend %s message", domain.ErrInvalidInput, t)
	}
}

func maxMessageID(session *domain.ChatSession) int64 {
	var highest int64
	for i := range session.Messages {
		if session.Messages[i].ID > highest {
			highest = session.Messages[i].ID
		}
	}
	return highest
}

// errorMessage returns the text shown in an "Error: ..." reply.
func errorMessage(err error) string {
	var be *domain.BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
