package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// ChatRepo defines the persistence operations for chat sessions and their
// append-only message transcripts. When the chat tables are absent the
// methods return domain.ErrSchemaMissing and callers degrade to an
// in-memory transcript.
type ChatRepo interface {
	// LatestSession returns the most recently created session for the user.
	// Returns domain.ErrNotFound when the user has no session yet.
	LatestSession(ctx context.Context, userID int64) (domain.ChatSession, error)

	// CreateSession inserts a new session for the user and returns it.
	CreateSession(ctx context.Context, userID int64, title string) (domain.ChatSession, error)

	// ListMessages returns the full transcript of a session ordered by
	// creation time ascending.
	ListMessages(ctx context.Context, sessionID int64) ([]domain.ChatMessage, error)

	// AppendMessage inserts one message at the end of a session's transcript.
	AppendMessage(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error)
}

// pgChatRepo is the Postgres implementation of ChatRepo.
type pgChatRepo struct {
	db db
}

// NewChatRepo constructs a ChatRepo backed by the provided db connection.
func NewChatRepo(db db) ChatRepo {
	return &pgChatRepo{db: db}
}

func (r *pgChatRepo) LatestSession(ctx context.Context, userID int64) (domain.ChatSession, error) {
	const q = `
		SELECT chat_id, user_id, title, created_at
		FROM chat_sessions
		WHERE user_id = @user_id
		ORDER BY created_at DESC
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID})
	s, err := scanSession(row)
	if err != nil {
		return domain.ChatSession{}, fmt.Errorf("repo.ChatRepo.LatestSession: %w", schemaMissing(err, "chat_sessions"))
	}
	return s, nil
}

func (r *pgChatRepo) CreateSession(ctx context.Context, userID int64, title string) (domain.ChatSession, error) {
	const q = `
		INSERT INTO chat_sessions (user_id, title)
		VALUES (@user_id, @title)
		RETURNING chat_id, user_id, title, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "title": title})
	s, err := scanSession(row)
	if err != nil {
		return domain.ChatSession{}, fmt.Errorf("repo.ChatRepo.CreateSession: %w", schemaMissing(err, "chat_sessions"))
	}
	return s, nil
}

func (r *pgChatRepo) ListMessages(ctx context.Context, sessionID int64) ([]domain.ChatMessage, error) {
	const q = `
		SELECT message_id, chat_id, user_id, role, content, created_at
		FROM chat_messages
		WHERE chat_id = @chat_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"chat_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("repo.ChatRepo.ListMessages: %w", schemaMissing(err, "chat_messages"))
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ChatRepo.ListMessages: scan: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ChatRepo.ListMessages: rows: %w", err)
	}

	return msgs, nil
}

func (r *pgChatRepo) AppendMessage(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	const q = `
		INSERT INTO chat_messages (chat_id, user_id, role, content)
		VALUES (@chat_id, @user_id, @role, @content)
		RETURNING message_id, chat_id, user_id, role, content, created_at`

	args := pgx.NamedArgs{
		"chat_id": msg.SessionID,
		"user_id": msg.UserID,
		"role":    string(msg.Role),
		"content": msg.Content,
	}

	m, err := scanMessage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("repo.ChatRepo.AppendMessage: %w", schemaMissing(err, "chat_messages"))
	}
	return m, nil
}

// scanSession maps a single chat_sessions row into a domain.ChatSession.
func scanSession(s scanner) (domain.ChatSession, error) {
	var cs domain.ChatSession
	err := s.Scan(&cs.ID, &cs.UserID, &cs.Title, &cs.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatSession{}, domain.ErrNotFound
		}
		return domain.ChatSession{}, err
	}
	return cs, nil
}

// scanMessage maps a single chat_messages row into a domain.ChatMessage.
func scanMessage(s scanner) (domain.ChatMessage, error) {
	var (
		m    domain.ChatMessage
		role string
	)
	err := s.Scan(&m.ID, &m.SessionID, &m.UserID, &role, &m.Content, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatMessage{}, domain.ErrNotFound
		}
		return domain.ChatMessage{}, err
	}
	m.Role = domain.ChatRole(role)
	return m, nil
}
