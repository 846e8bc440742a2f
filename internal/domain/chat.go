package domain

import "time"

// ChatRole identifies the sender of a chat message.
type ChatRole string

const (
	// RoleUser marks a message written by the account owner.
	RoleUser ChatRole = "user"
	// RoleAssistant marks a message produced by the travel assistant.
	RoleAssistant ChatRole = "assistant"
)

// ChatSession is one persisted conversation for a user. The most recently
// created session is reused on each app run; older sessions are kept but
// never reopened.
type ChatSession struct {
	ID        int64
	UserID    int64
	Title     string
	CreatedAt time.Time
}

// ChatMessage is one append-only entry of a session's transcript.
// Messages are never mutated or deleted.
type ChatMessage struct {
	ID        int64
	SessionID int64
	UserID    int64
	Role      ChatRole
	Content   string
	CreatedAt time.Time
}
