package domain

// ScheduleRow is a single row in a trip's schedule export.
// It is a flat, denormalized view: one row per event, with trip fields
// repeated for every event. Trips with no events yield one row with zero
// values for all event fields.
type ScheduleRow struct {
	// Trip fields, repeated for every event on the trip.
	TripID    int64
	TripTitle string
	TripStart string // "2006-01-02" formatted date
	TripEnd   string

	// Event fields, zero values when the trip has no events.
	Date      string
	StartTime string
	EndTime   string
	Place     string
	Notes     string
	Cost      *float64

	// Currency is the user's preferred currency code; empty when the user
	// has no stored preference.
	Currency string
}
