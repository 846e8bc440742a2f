package domain

import "time"

// TripEvent is a dated, timed activity within a trip.
// StartTime and EndTime are wall-clock strings ("HH:MM"); EndTime may be
// empty. Cost is nil when no cost was recorded, distinct from a zero cost.
type TripEvent struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"trip_id"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time,omitempty"`
	Place     string    `json:"place,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Cost      *float64  `json:"cost,omitempty"`
}

// TripDay is a row of the legacy two-table schedule schema: one record per
// (trip, date) pair, keyed uniquely on that pair, holding the 1-based day
// index from the trip's start date. It exists only as a fallback for
// deployments that predate the unified trip_events table.
type TripDay struct {
	ID       int64
	TripID   int64
	Date     time.Time
	DayIndex int
}

// TripActivity is the legacy counterpart of TripEvent, nested under a
// TripDay. The legacy schema has no place column.
type TripActivity struct {
	ID        int64
	DayID     int64
	StartTime string
	EndTime   string
	Notes     string
	Cost      *float64
}

// Event converts a legacy activity into the unified event shape so callers
// never see which schema served them.
func (a TripActivity) Event(tripID int64, date time.Time) TripEvent {
	return TripEvent{
		ID:        a.ID,
		TripID:    tripID,
		Date:      date,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Notes:     a.Notes,
		Cost:      a.Cost,
	}
}

// ClockLabel renders a stored time value for display: values matching the
// HH:MM prefix pattern are cut to their first five characters, anything
// else is shown as given, truncated to five characters.
func ClockLabel(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
