package handler

import (
	"net/http"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// getPing handles GET /api/ping.
func (s *Server) getPing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Hermes API online"})
}

// listDestinations handles GET /api/destinations.
func (s *Server) listDestinations(w http.ResponseWriter, r *http.Request) {
	dests, err := s.destinations.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}
	if dests == nil {
		dests = []domain.Destination{}
	}
	writeJSON(w, http.StatusOK, dests)
}
