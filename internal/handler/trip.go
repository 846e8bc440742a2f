package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// tripRequest is the JSON body for POST /trips.
type tripRequest struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// tripResponse is the JSON shape of a trip. Dates are ISO calendar dates,
// not timestamps.
type tripResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// createTrip handles POST /trips.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var body tripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "request body is required")
		return
	}

	trip, err := requestToTrip(user.ID, body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// listTrips handles GET /trips.
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	trips, err := s.trips.ListByUser(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}

	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// getTrip handles GET /trips/{tripID}.
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "trip not found")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), user.ID, tripID)
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// deleteTrip handles DELETE /trips/{tripID}.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "trip not found")
		return
	}

	if err := s.trips.Delete(r.Context(), user.ID, tripID); err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a tripRequest body into a domain.Trip.
// Returns an error when the dates are malformed; field presence rules are
// enforced by the service layer.
func requestToTrip(userID int64, body tripRequest) (domain.Trip, error) {
	t := domain.Trip{UserID: userID, Title: body.Title}

	if body.StartDate != "" {
		start, err := domain.ParseDate(body.StartDate)
		if err != nil {
			return domain.Trip{}, errors.New("start_date must be formatted as " + domain.DateLayout)
		}
		t.StartDate = start
	}
	if body.EndDate != "" {
		end, err := domain.ParseDate(body.EndDate)
		if err != nil {
			return domain.Trip{}, errors.New("end_date must be formatted as " + domain.DateLayout)
		}
		t.EndDate = end
	}

	return t, nil
}

// tripToResponse converts a domain.Trip into its JSON shape.
func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:        t.ID,
		Title:     t.Title,
		StartDate: domain.FormatDate(t.StartDate),
		EndDate:   domain.FormatDate(t.EndDate),
		CreatedAt: t.CreatedAt,
	}
}
