package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_start_date", "trip_end_date",
	"date", "start_time", "end_time", "place", "notes", "cost", "currency",
}

// exportRowResponse is the JSON shape of one flat schedule row.
type exportRowResponse struct {
	TripID    int64    `json:"trip_id"`
	TripTitle string   `json:"trip_title"`
	TripStart string   `json:"trip_start_date"`
	TripEnd   string   `json:"trip_end_date"`
	Date      string   `json:"date,omitempty"`
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Place     string   `json:"place,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Cost      *float64 `json:"cost,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}

// getExport handles GET /trips/{tripID}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	user, tripID, ok := s.tripScope(w, r)
	if !ok {
		return
	}

	rows, err := s.export.Rows(r.Context(), user.ID, tripID)
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, tripID, rows)
		return
	}

	out := make([]exportRowResponse, len(rows))
	for i, row := range rows {
		out[i] = exportRowResponse(row)
	}
	writeJSON(w, http.StatusOK, out)
}

// getCalendarICS handles GET /trips/{tripID}/calendar.ics.
func (s *Server) getCalendarICS(w http.ResponseWriter, r *http.Request) {
	user, tripID, ok := s.tripScope(w, r)
	if !ok {
		return
	}

	serialized, err := s.export.CalendarICS(r.Context(), user.ID, tripID)
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=trip_%d.ics", tripID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(serialized)); err != nil {
		// Status is already on the wire; nothing left to salvage.
		return
	}
}

// writeCSV encodes schedule rows as a CSV attachment.
func writeCSV(w http.ResponseWriter, tripID int64, rows []domain.ScheduleRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// Writes to a bytes.Buffer cannot fail; errors surface via cw.Error
	// after Flush if anything else goes wrong.
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=trip_%d.csv", tripID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// rowToCSVRecord encodes a domain.ScheduleRow as a flat string slice.
// A nil cost is encoded as the empty string, distinct from "0".
func rowToCSVRecord(r domain.ScheduleRow) []string {
	cost := ""
	if r.Cost != nil {
		cost = strconv.FormatFloat(*r.Cost, 'f', -1, 64)
	}
	return []string{
		strconv.FormatInt(r.TripID, 10),
		r.TripTitle,
		r.TripStart,
		r.TripEnd,
		r.Date,
		r.StartTime,
		r.EndTime,
		r.Place,
		r.Notes,
		cost,
		r.Currency,
	}
}
