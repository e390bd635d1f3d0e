package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// List returns all sessions of a kind, newest first.
func (s *sessionStore) List(ctx context.Context, kind domain.AssistantKind) ([]domain.ChatSession, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, created_at, last_message
		FROM chat_sessions WHERE kind = ?
		ORDER BY position DESC
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.ChatSession, 0)
	index := make(map[string]int)
	for rows.Next() {
		session := domain.ChatSession{Kind: kind}
		var createdAt, lastMessage int64
		if err := rows.Scan(&session.ID, &session.Title, &createdAt, &lastMessage); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		session.CreatedAt = fromNanos(createdAt)
		session.LastMessage = fromNanos(lastMessage)
		session.Messages = []domain.Message{}
		index[session.ID] = len(sessions)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	rows.Close()

	msgRows, err := s.store.db.QueryContext(ctx, `
		SELECT session_id, id, sender, type, content, timestamp, audio_base64, legal_result
		FROM chat_messages WHERE kind = ?
		ORDER BY session_id, seq
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer msgRows.Close()

	for msgRows.Next() {
		sessionID, msg, err := scanMessage(msgRows, true)
		if err != nil {
			return nil, err
		}
		if i, ok := index[sessionID]; ok {
			sessions[i].Messages = append(sessions[i].Messages, msg)
		}
	}
	if err := msgRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return sessions, nil
}

// Get retrieves a session by ID.
func (s *sessionStore) Get(ctx context.Context, kind domain.AssistantKind, id string) (*domain.ChatSession, error) {
	session := domain.ChatSession{ID: id, Kind: kind, Messages: []domain.Message{}}
	var createdAt, lastMessage int64
	err := s.store.db.QueryRowContext(ctx, `
		SELECT title, created_at, last_message
		FROM chat_sessions WHERE kind = ? AND id = ?
	`, string(kind), id).Scan(&session.Title, &createdAt, &lastMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	session.CreatedAt = fromNanos(createdAt)
	session.LastMessage = fromNanos(lastMessage)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, sender, type, content, timestamp, audio_base64, legal_result
		FROM chat_messages WHERE kind = ? AND session_id = ?
		ORDER BY seq
	`, string(kind), id)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		_, msg, err := scanMessage(rows, false)
		if err != nil {
			return nil, err
		}
		session.Messages = append(session.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return &session, nil
}

// Save upserts a session and replaces its messages.
func (s *sessionStore) Save(ctx context.Context, session domain.ChatSession) error {
	if !session.Kind.IsValid() {
		return domain.ErrUnsupportedKind
	}
	if session.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Existing sessions keep their position; new ones go on top.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_sessions (kind, id, position, title, created_at, last_message)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM chat_sessions WHERE kind = ?), ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			title = excluded.title,
			created_at = excluded.created_at,
			last_message = excluded.last_message
	`, string(session.Kind), session.ID, string(session.Kind), session.Title,
		toNanos(session.CreatedAt), toNanos(session.LastMessage))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chat_messages WHERE kind = ? AND session_id = ?",
		string(session.Kind), session.ID); err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chat_messages
			(kind, session_id, seq, id, sender, type, content, timestamp, audio_base64, legal_result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing message insert: %w", err)
	}
	defer stmt.Close()

	for i := range session.Messages {
		msg := &session.Messages[i]
		legal, err := encodeLegalResult(&msg.LegalResult)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			string(session.Kind), session.ID, i, msg.ID, string(msg.Sender), string(msg.Type),
			msg.Content, toNanos(msg.Timestamp), nullString(msg.AudioBase64), legal,
		); err != nil {
			return fmt.Errorf("saving message %d: %w", msg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

// Delete removes a session; its messages cascade.
func (s *sessionStore) Delete(ctx context.Context, kind domain.AssistantKind, id string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM chat_sessions WHERE kind = ? AND id = ?", string(kind), id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Truncate keeps only the newest keep sessions of a kind.
func (s *sessionStore) Truncate(ctx context.Context, kind domain.AssistantKind, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM chat_sessions
		WHERE kind = ? AND id NOT IN (
			SELECT id FROM chat_sessions WHERE kind = ?
			ORDER BY position DESC LIMIT ?
		)
	`, string(kind), string(kind), keep)
	if err != nil {
		return fmt.Errorf("truncating sessions: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMessage scans a message row, optionally prefixed by its session id.
func scanMessage(row rowScanner, withSession bool) (string, domain.Message, error) {
	var (
		sessionID   string
		msg         domain.Message
		sender      string
		msgType     string
		timestamp   int64
		audioBase64 sql.NullString
		legal       sql.NullString
	)
	dest := []any{&msg.ID, &sender, &msgType, &msg.Content, &timestamp, &audioBase64, &legal}
	if withSession {
		dest = append([]any{&sessionID}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return "", msg, fmt.Errorf("scanning message: %w", err)
	}

	msg.Sender = domain.Sender(sender)
	msg.Type = domain.MessageType(msgType)
	msg.Timestamp = fromNanos(timestamp)
	msg.AudioBase64 = audioBase64.String
	if legal.Valid && legal.String != "" {
		if err := json.Unmarshal([]byte(legal.String), &msg.LegalResult); err != nil {
			return "", msg, fmt.Errorf("unmarshalling legal result of message %d: %w", msg.ID, err)
		}
	}
	return sessionID, msg, nil
}

func encodeLegalResult(r *domain.LegalResult) (sql.NullString, error) {
	if r.IsEmpty() {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshalling legal result: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
