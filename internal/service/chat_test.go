package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/relay"
	"github.com/ramzez/hermes-travel/backend/internal/repo"
	"github.com/ramzez/hermes-travel/backend/internal/service"
)

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	getByEmail        func(ctx context.Context, email string) (domain.User, error)
	preferredCurrency func(ctx context.Context, userID int64) (string, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) PreferredCurrency(ctx context.Context, userID int64) (string, error) {
	return m.preferredCurrency(ctx, userID)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// mockChatRepo is a hand-written test double for repo.ChatRepo. Appended
// messages are recorded under a mutex because persistence runs on a
// background goroutine.
type mockChatRepo struct {
	latestSession func(ctx context.Context, userID int64) (domain.ChatSession, error)
	createSession func(ctx context.Context, userID int64, title string) (domain.ChatSession, error)
	listMessages  func(ctx context.Context, sessionID int64) ([]domain.ChatMessage, error)

	mu       sync.Mutex
	appended []domain.ChatMessage
	saved    chan struct{} // receives one signal per AppendMessage call
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{saved: make(chan struct{}, 16)}
}

func (m *mockChatRepo) LatestSession(ctx context.Context, userID int64) (domain.ChatSession, error) {
	return m.latestSession(ctx, userID)
}
func (m *mockChatRepo) CreateSession(ctx context.Context, userID int64, title string) (domain.ChatSession, error) {
	return m.createSession(ctx, userID, title)
}
func (m *mockChatRepo) ListMessages(ctx context.Context, sessionID int64) ([]domain.ChatMessage, error) {
	return m.listMessages(ctx, sessionID)
}
func (m *mockChatRepo) AppendMessage(_ context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	m.mu.Lock()
	m.appended = append(m.appended, msg)
	m.mu.Unlock()
	m.saved <- struct{}{}
	return msg, nil
}

// waitSaved blocks until n messages have been appended.
func (m *mockChatRepo) waitSaved(t *testing.T, n int) []domain.ChatMessage {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.saved:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for append %d of %d", i+1, n)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatMessage(nil), m.appended...)
}

var _ repo.ChatRepo = (*mockChatRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func chatUserRepo() *mockUserRepo {
	return &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			return domain.User{ID: 1, Email: email}, nil
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// replyServer returns a relay client pointed at a stub webhook that always
// responds with the given JSON body.
func replyServer(t *testing.T, body string) *relay.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return relay.New(srv.URL, 5*time.Second)
}

func entryTexts(entries []service.TranscriptEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

// ---- Open ------------------------------------------------------------------

func TestChatService_Open_ExistingSessionWithHistory(t *testing.T) {
	chats := newMockChatRepo()
	chats.latestSession = func(_ context.Context, userID int64) (domain.ChatSession, error) {
		return domain.ChatSession{ID: 5, UserID: userID}, nil
	}
	chats.listMessages = func(_ context.Context, sessionID int64) ([]domain.ChatMessage, error) {
		assert.Equal(t, int64(5), sessionID)
		return []domain.ChatMessage{
			{ID: 1, SessionID: 5, Role: domain.RoleAssistant, Content: "older greeting"},
			{ID: 2, SessionID: 5, Role: domain.RoleUser, Content: "hello"},
		}, nil
	}

	svc := service.NewChatService(chatUserRepo(), chats, relay.New("", time.Second), discardLogger())

	tr, err := svc.Open(context.Background(), "ada@example.com")

	require.NoError(t, err)
	assert.True(t, tr.Persisted())
	assert.Equal(t, int64(5), tr.SessionID)
	assert.Equal(t, []string{"older greeting", "hello"}, entryTexts(tr.Entries))
}

func TestChatService_Open_NoSessionCreatesOneWithGreeting(t *testing.T) {
	chats := newMockChatRepo()
	chats.latestSession = func(_ context.Context, _ int64) (domain.ChatSession, error) {
		return domain.ChatSession{}, domain.ErrNotFound
	}
	chats.createSession = func(_ context.Context, userID int64, title string) (domain.ChatSession, error) {
		assert.Equal(t, "Conversation", title)
		return domain.ChatSession{ID: 9, UserID: userID, Title: title}, nil
	}

	svc := service.NewChatService(chatUserRepo(), chats, relay.New("", time.Second), discardLogger())

	tr, err := svc.Open(context.Background(), "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, int64(9), tr.SessionID)
	assert.Equal(t, []string{service.Greeting}, entryTexts(tr.Entries))

	// The seeded greeting is persisted in the background.
	saved := chats.waitSaved(t, 1)
	assert.Equal(t, domain.RoleAssistant, saved[0].Role)
	assert.Equal(t, service.Greeting, saved[0].Content)
}

func TestChatService_Open_EmptyHistoryShowsGreeting(t *testing.T) {
	chats := newMockChatRepo()
	chats.latestSession = func(_ context.Context, _ int64) (domain.ChatSession, error) {
		return domain.ChatSession{ID: 5}, nil
	}
	chats.listMessages = func(_ context.Context, _ int64) ([]domain.ChatMessage, error) {
		return nil, nil
	}

	svc := service.NewChatService(chatUserRepo(), chats, relay.New("", time.Second), discardLogger())

	tr, err := svc.Open(context.Background(), "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, []string{service.Greeting}, entryTexts(tr.Entries))
}

func TestChatService_Open_SchemaMissingDegradesToMemory(t *testing.T) {
	chats := newMockChatRepo()
	chats.latestSession = func(_ context.Context, _ int64) (domain.ChatSession, error) {
		return domain.ChatSession{}, domain.ErrSchemaMissing
	}

	svc := service.NewChatService(chatUserRepo(), chats, relay.New("", time.Second), discardLogger())

	tr, err := svc.Open(context.Background(), "ada@example.com")

	// A missing chat schema never surfaces as an error.
	require.NoError(t, err)
	assert.False(t, tr.Persisted())
	assert.Equal(t, []string{service.Greeting}, entryTexts(tr.Entries))
}

func TestChatService_Open_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := service.NewChatService(users, newMockChatRepo(), relay.New("", time.Second), discardLogger())

	_, err := svc.Open(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Send ------------------------------------------------------------------

func TestChatService_Send_RelaysAndPersists(t *testing.T) {
	chats := newMockChatRepo()
	rc := replyServer(t, `{"output": "Sounds fun!"}`)
	svc := service.NewChatService(chatUserRepo(), chats, rc, discardLogger())

	tr := &service.Transcript{UserID: 1, SessionID: 5}

	entry, err := svc.Send(context.Background(), tr, "  plan a day in Kyoto  ")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, entry.Role)
	assert.Equal(t, "Sounds fun!", entry.Text)
	// Optimistic user entry plus the reply.
	assert.Equal(t, []string{"plan a day in Kyoto", "Sounds fun!"}, entryTexts(tr.Entries))

	saved := chats.waitSaved(t, 2)
	roles := map[domain.ChatRole]string{}
	for _, m := range saved {
		roles[m.Role] = m.Content
	}
	assert.Equal(t, "plan a day in Kyoto", roles[domain.RoleUser])
	assert.Equal(t, "Sounds fun!", roles[domain.RoleAssistant])
}

func TestChatService_Send_EmptyTextRejected(t *testing.T) {
	svc := service.NewChatService(chatUserRepo(), newMockChatRepo(), relay.New("", time.Second), discardLogger())

	tr := &service.Transcript{UserID: 1}

	_, err := svc.Send(context.Background(), tr, "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, tr.Entries)
}

func TestChatService_Send_UnconfiguredWebhook(t *testing.T) {
	chats := newMockChatRepo()
	svc := service.NewChatService(chatUserRepo(), chats, relay.New("", time.Second), discardLogger())

	tr := &service.Transcript{UserID: 1, SessionID: 5}

	entry, err := svc.Send(context.Background(), tr, "hello")

	require.NoError(t, err)
	assert.Contains(t, entry.Text, "CHAT_WEBHOOK_URL")

	// Only the user message is persisted; the configuration warning is local.
	saved := chats.waitSaved(t, 1)
	require.Len(t, saved, 1)
	assert.Equal(t, domain.RoleUser, saved[0].Role)
}

func TestChatService_Send_WebhookFailureBecomesEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The request body must be drained before the server will notice the
		// client abandoning the request; without this the context is never
		// canceled and Close in the cleanup deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done() // force a timeout
	}))
	t.Cleanup(srv.Close)

	svc := service.NewChatService(chatUserRepo(), newMockChatRepo(),
		relay.New(srv.URL, 50*time.Millisecond), discardLogger())

	tr := &service.Transcript{UserID: 1} // memory-only, nothing persisted

	entry, err := svc.Send(context.Background(), tr, "hello")

	// Transport failure is not an error to the caller; it is a visible entry.
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, entry.Role)
	assert.Contains(t, entry.Text, "Error reaching the agent:")
}

func TestChatService_Send_EmptyReplyBecomesNotice(t *testing.T) {
	rc := replyServer(t, `""`)
	svc := service.NewChatService(chatUserRepo(), newMockChatRepo(), rc, discardLogger())

	tr := &service.Transcript{UserID: 1}

	entry, err := svc.Send(context.Background(), tr, "hello")

	require.NoError(t, err)
	assert.Equal(t, "The agent sent back an empty reply.", entry.Text)
}

func TestChatService_Send_QueryReplyShowsFixedAck(t *testing.T) {
	rc := replyServer(t, `{"query": "update trips set title = 'x'"}`)
	svc := service.NewChatService(chatUserRepo(), newMockChatRepo(), rc, discardLogger())

	tr := &service.Transcript{UserID: 1}

	entry, err := svc.Send(context.Background(), tr, "rename my trip")

	require.NoError(t, err)
	assert.Equal(t, relay.QueryAck, entry.Text)
}

// persistence failures stay in the background and never affect the caller
func TestChatService_Send_PersistFailureIsSilent(t *testing.T) {
	chats := newMockChatRepo()
	svc := service.NewChatService(chatUserRepo(), chats, relay.New("", time.Second), discardLogger())

	// Memory-only transcript: AppendMessage must never be called.
	tr := &service.Transcript{UserID: 1}

	_, err := svc.Send(context.Background(), tr, "hello")

	require.NoError(t, err)
	select {
	case <-chats.saved:
		t.Fatal("memory-only transcript must not be persisted")
	case <-time.After(50 * time.Millisecond):
	}
}

var errBoom = errors.New("boom")

func TestChatService_Open_ListFailureDegrades(t *testing.T) {
	chats := newMockChatRepo()
	chats.latestSession = func(_ context.Context, _ int64) (domain.ChatSession, error) {
		return domain.ChatSession{ID: 5}, nil
	}
	chats.listMessages = func(_ context.Context, _ int64) ([]domain.ChatMessage, error) {
		return nil, errBoom
	}

	svc := service.NewChatService(chatUserRepo(), chats, relay.New("", time.Second), discardLogger())

	tr, err := svc.Open(context.Background(), "ada@example.com")

	require.NoError(t, err)
	assert.False(t, tr.Persisted())
	assert.Equal(t, []string{service.Greeting}, entryTexts(tr.Entries))
}
