package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/relay"
	"github.com/ramzez/hermes-travel/backend/internal/repo"
)

// Greeting seeds every new or degraded transcript.
const Greeting = "Hi! I'm Hermes, your travel assistant. How can I help you today?"

// Fixed local assistant messages that never reach the webhook or the store.
const (
	noticeWebhookMissing = "The chat webhook is not configured. Set CHAT_WEBHOOK_URL to enable the assistant."
	noticeEmptyReply     = "The agent sent back an empty reply."
)

// persistTimeout bounds the background writes that persist transcript
// entries after the response has already been shown.
const persistTimeout = 10 * time.Second

// TranscriptEntry is one displayed message. The ID is assigned locally
// (before any persistence) so optimistic entries have stable identity even
// when the background write fails or the session is memory-only.
type TranscriptEntry struct {
	ID     uuid.UUID       `json:"id"`
	Role   domain.ChatRole `json:"role"`
	Text   string          `json:"text"`
	SentAt time.Time       `json:"sent_at"`
}

// Transcript is the ordered message list for one user's active session.
// SessionID is zero when the chat tables are unavailable and the transcript
// lives only in memory for this run.
type Transcript struct {
	UserID    int64             `json:"user_id"`
	SessionID int64             `json:"session_id,omitempty"`
	Entries   []TranscriptEntry `json:"entries"`
}

// Persisted reports whether entries are written through to the store.
func (t *Transcript) Persisted() bool {
	return t.SessionID != 0
}

// append adds a new entry and returns it.
func (t *Transcript) append(role domain.ChatRole, text string) TranscriptEntry {
	e := TranscriptEntry{ID: uuid.New(), Role: role, Text: text, SentAt: time.Now()}
	t.Entries = append(t.Entries, e)
	return e
}

// ChatService maintains per-user chat transcripts and relays outgoing text
// to the reply webhook.
type ChatService struct {
	users repo.UserRepo
	chats repo.ChatRepo
	relay *relay.Client
	log   *slog.Logger
}

// NewChatService constructs a ChatService. log must not be nil; background
// persistence failures are reported through it and nowhere else.
func NewChatService(users repo.UserRepo, chats repo.ChatRepo, rc *relay.Client, log *slog.Logger) *ChatService {
	return &ChatService{users: users, chats: chats, relay: rc, log: log}
}

// Open resolves the account email to its user row and loads the user's
// active transcript: the most recently created session is reused, a new one
// is created (seeded with the greeting) when none exists, and a missing
// chat schema degrades to an in-memory transcript with no user-visible
// error. An empty history displays the greeting.
func (s *ChatService) Open(ctx context.Context, email string) (*Transcript, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service.ChatService.Open: %w", err)
	}

	t := &Transcript{UserID: user.ID}

	session, err := s.chats.LatestSession(ctx, user.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		session, err = s.chats.CreateSession(ctx, user.ID, "Conversation")
		if err != nil {
			return s.degrade(t, err)
		}
		t.SessionID = session.ID
		t.append(domain.RoleAssistant, Greeting)
		s.persist(t, domain.RoleAssistant, Greeting)
		return t, nil
	case err != nil:
		return s.degrade(t, err)
	}
	t.SessionID = session.ID

	msgs, err := s.chats.ListMessages(ctx, session.ID)
	if err != nil {
		return s.degrade(t, err)
	}
	for _, m := range msgs {
		t.Entries = append(t.Entries, TranscriptEntry{
			ID:     uuid.New(),
			Role:   m.Role,
			Text:   m.Content,
			SentAt: m.CreatedAt,
		})
	}
	if len(t.Entries) == 0 {
		t.append(domain.RoleAssistant, Greeting)
	}

	return t, nil
}

// Send appends the user's trimmed text optimistically, persists it in the
// background, relays it to the webhook, and appends (and persists) the
// normalized reply. Transport failures, including timeout, become a
// synthetic assistant entry embedding the error, persisted like any reply.
// Returns domain.ErrValidation when the trimmed text is empty.
func (s *ChatService) Send(ctx context.Context, t *Transcript, text string) (TranscriptEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TranscriptEntry{}, fmt.Errorf("%w: message text is required", domain.ErrValidation)
	}

	t.append(domain.RoleUser, text)
	s.persist(t, domain.RoleUser, text)

	if !s.relay.Configured() {
		// Local configuration warning; deliberately not persisted.
		return t.append(domain.RoleAssistant, noticeWebhookMissing), nil
	}

	reply, err := s.relay.Ask(ctx, text)
	if err != nil {
		reply = "Error reaching the agent: " + err.Error()
	} else if reply == "" {
		reply = noticeEmptyReply
	}

	entry := t.append(domain.RoleAssistant, reply)
	s.persist(t, domain.RoleAssistant, reply)
	return entry, nil
}

// degrade switches the transcript to memory-only mode seeded with the
// greeting. Missing chat tables are expected on older deployments and stay
// silent; anything else is logged once here.
func (s *ChatService) degrade(t *Transcript, cause error) (*Transcript, error) {
	if !errors.Is(cause, domain.ErrSchemaMissing) {
		s.log.Warn("chat history unavailable, using in-memory transcript", "error", cause)
	}
	t.SessionID = 0
	t.Entries = nil
	t.append(domain.RoleAssistant, Greeting)
	return t, nil
}

// persist writes one entry through to the store in the background. The
// caller has already shown the entry; failures are logged, never surfaced.
func (s *ChatService) persist(t *Transcript, role domain.ChatRole, text string) {
	if !t.Persisted() {
		return
	}
	msg := domain.ChatMessage{SessionID: t.SessionID, UserID: t.UserID, Role: role, Content: text}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if _, err := s.chats.AppendMessage(ctx, msg); err != nil {
			if errors.Is(err, domain.ErrSchemaMissing) {
				return
			}
			s.log.Warn("failed to persist chat message", "session_id", t.SessionID, "role", role, "error", err)
		}
	}()
}
