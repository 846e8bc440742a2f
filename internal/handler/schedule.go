package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ramzez/hermes-travel/backend/internal/calendar"
	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/service"
)

// eventRequest is the JSON body for creating or updating an event. All
// fields arrive as raw form text; validation and cost parsing happen in the
// service layer.
type eventRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Place     string `json:"place"`
	Notes     string `json:"notes"`
	Cost      string `json:"cost"`
}

// eventResponse is the JSON shape of one scheduled event. Times carry the
// five-character clock label used for display.
type eventResponse struct {
	ID        int64    `json:"id"`
	TripID    int64    `json:"trip_id"`
	Date      string   `json:"date"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time,omitempty"`
	Place     string   `json:"place,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Cost      *float64 `json:"cost,omitempty"`
}

// sheetResponse is the JSON shape of a trip's day sheet.
type sheetResponse struct {
	Trip     tripResponse    `json:"trip"`
	Selected string          `json:"selected"`
	Marked   []string        `json:"marked"`
	Events   []eventResponse `json:"events"`
	Currency string          `json:"currency,omitempty"`
	Notice   string          `json:"notice,omitempty"`
}

// cellResponse is one day cell of a calendar grid.
type cellResponse struct {
	Date       string `json:"date"`
	InRange    bool   `json:"in_range"`
	Marked     bool   `json:"marked,omitempty"`
	Selected   bool   `json:"selected,omitempty"`
	RangeStart bool   `json:"range_start,omitempty"`
	RangeEnd   bool   `json:"range_end,omitempty"`
}

// getSchedule handles GET /trips/{tripID}/schedule?date=YYYY-MM-DD.
func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	user, tripID, ok := s.tripScope(w, r)
	if !ok {
		return
	}

	sheet, err := s.schedule.Sheet(r.Context(), user.ID, tripID, queryDate(r, "date"))
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, sheetToResponse(sheet))
}

// getCalendar handles GET /trips/{tripID}/calendar?selected=YYYY-MM-DD.
func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	user, tripID, ok := s.tripScope(w, r)
	if !ok {
		return
	}

	view, err := s.schedule.CalendarView(r.Context(), user.ID, tripID, queryDate(r, "selected"))
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, viewToResponse(view))
}

// createEvent handles POST /trips/{tripID}/events.
func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	user, tripID, ok := s.tripScope(w, r)
	if !ok {
		return
	}

	in, ok := decodeEventRequest(w, r)
	if !ok {
		return
	}

	sheet, err := s.schedule.CreateEvent(r.Context(), user.ID, tripID, in)
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, sheetToResponse(sheet))
}

// updateEvent handles PUT /trips/{tripID}/events/{eventID}.
func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	user, tripID, ok := s.tripScope(w, r)
	if !ok {
		return
	}
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "event not found")
		return
	}

	in, ok := decodeEventRequest(w, r)
	if !ok {
		return
	}

	sheet, err := s.schedule.UpdateEvent(r.Context(), user.ID, tripID, eventID, in)
	if err != nil {
		respondServiceError(w, r, err, "event not found")
		return
	}

	writeJSON(w, http.StatusOK, sheetToResponse(sheet))
}

// deleteEvent handles DELETE /trips/{tripID}/events/{eventID}?date=YYYY-MM-DD.
// The optional date names the day sheet the caller is looking at so the
// response reflects its updated local list.
func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	user, tripID, ok := s.tripScope(w, r)
	if !ok {
		return
	}
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "event not found")
		return
	}

	sheet, err := s.schedule.DeleteEvent(r.Context(), user.ID, tripID, eventID, queryDate(r, "date"))
	if err != nil {
		respondServiceError(w, r, err, "event not found")
		return
	}

	writeJSON(w, http.StatusOK, sheetToResponse(sheet))
}

// --- helpers ----------------------------------------------------------------

// tripScope resolves the current user and the tripID path parameter.
func (s *Server) tripScope(w http.ResponseWriter, r *http.Request) (domain.User, int64, bool) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return domain.User{}, 0, false
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "trip not found")
		return domain.User{}, 0, false
	}
	return user, tripID, true
}

// decodeEventRequest reads the event JSON body into a service.EventInput.
func decodeEventRequest(w http.ResponseWriter, r *http.Request) (service.EventInput, bool) {
	var body eventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "request body is required")
		return service.EventInput{}, false
	}
	return service.EventInput{
		Date:      body.Date,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Place:     body.Place,
		Notes:     body.Notes,
		Cost:      body.Cost,
	}, true
}

// queryDate parses an optional ISO date query parameter; absent or
// malformed values come back zero and fall back to the service defaults.
func queryDate(r *http.Request, name string) time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}
	}
	return d
}

// sheetToResponse converts a service.DaySheet into its JSON shape.
func sheetToResponse(sheet service.DaySheet) sheetResponse {
	marked := make([]string, len(sheet.Marked))
	for i, d := range sheet.Marked {
		marked[i] = domain.FormatDate(d)
	}
	events := make([]eventResponse, len(sheet.Events))
	for i, ev := range sheet.Events {
		events[i] = eventToResponse(ev)
	}
	return sheetResponse{
		Trip:     tripToResponse(sheet.Trip),
		Selected: domain.FormatDate(sheet.Selected),
		Marked:   marked,
		Events:   events,
		Currency: sheet.Currency,
		Notice:   sheet.Notice,
	}
}

// eventToResponse converts a domain.TripEvent into its JSON shape.
func eventToResponse(ev domain.TripEvent) eventResponse {
	return eventResponse{
		ID:        ev.ID,
		TripID:    ev.TripID,
		Date:      domain.FormatDate(ev.Date),
		StartTime: domain.ClockLabel(ev.StartTime),
		EndTime:   domain.ClockLabel(ev.EndTime),
		Place:     ev.Place,
		Notes:     ev.Notes,
		Cost:      ev.Cost,
	}
}

// viewToResponse flattens a calendar.View into rows of cell DTOs.
func viewToResponse(view *calendar.View) [][]cellResponse {
	weeks := make([][]cellResponse, len(view.Weeks))
	for wi, week := range view.Weeks {
		row := make([]cellResponse, len(week))
		for di, cell := range week {
			row[di] = cellResponse{
				Date:       domain.FormatDate(cell.Date),
				InRange:    cell.InRange,
				Marked:     cell.Marked,
				Selected:   cell.Selected,
				RangeStart: cell.RangeStart,
				RangeEnd:   cell.RangeEnd,
			}
		}
		weeks[wi] = row
	}
	return weeks
}
