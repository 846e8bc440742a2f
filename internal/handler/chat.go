package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ramzez/hermes-travel/backend/internal/service"
)

// chatMessageRequest is the JSON body for POST /chat/messages.
type chatMessageRequest struct {
	Text string `json:"text"`
}

// chatEntryResponse is one transcript entry: display text, sender role, and
// a short HH:MM label alongside the full timestamp.
type chatEntryResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
	TimeLabel string    `json:"time_label"`
}

// chatResponse is the full transcript for the current session. Persisted is
// false when the chat tables are unavailable and the transcript lives only
// in memory.
type chatResponse struct {
	SessionID int64               `json:"session_id,omitempty"`
	Persisted bool                `json:"persisted"`
	Entries   []chatEntryResponse `json:"entries"`
}

// getChat handles GET /chat: resolve (or create) the user's active session
// and return its transcript.
func (s *Server) getChat(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	t, err := s.chat.Open(r.Context(), user.Email)
	if err != nil {
		respondServiceError(w, r, err, "user profile not found")
		return
	}

	writeJSON(w, http.StatusOK, transcriptToResponse(t))
}

// postChatMessage handles POST /chat/messages: append the user's text,
// relay it to the webhook, and return the transcript including the reply.
// Webhook failures surface as a synthetic assistant entry, never as an HTTP
// error.
func (s *Server) postChatMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var body chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "request body is required")
		return
	}

	t, err := s.chat.Open(r.Context(), user.Email)
	if err != nil {
		respondServiceError(w, r, err, "user profile not found")
		return
	}

	if _, err := s.chat.Send(r.Context(), t, body.Text); err != nil {
		respondServiceError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, transcriptToResponse(t))
}

// transcriptToResponse converts a service.Transcript into its JSON shape.
func transcriptToResponse(t *service.Transcript) chatResponse {
	entries := make([]chatEntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = chatEntryResponse{
			ID:        e.ID.String(),
			Role:      string(e.Role),
			Text:      e.Text,
			SentAt:    e.SentAt,
			TimeLabel: e.SentAt.Format("15:04"),
		}
	}
	return chatResponse{
		SessionID: t.SessionID,
		Persisted: t.Persisted(),
		Entries:   entries,
	}
}
