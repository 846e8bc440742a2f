// Package domain contains the core data types for the Hermes travel planner.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Trip represents a user-owned span of calendar dates with scheduled events.
// A trip is the top-level aggregate; events belong to a trip and deleting a
// trip cascades to them.
type Trip struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"` // inclusive
	EndDate   time.Time `json:"end_date"`   // inclusive; never before StartDate
	CreatedAt time.Time `json:"created_at"`
}

// Contains reports whether date falls within the trip's [StartDate, EndDate]
// range, comparing calendar dates only.
func (t Trip) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(t.StartDate)) && !d.After(DateOnly(t.EndDate))
}

// DayIndex returns the 1-based offset of date from the trip's start date.
// Dates on or before the start date map to 1.
func (t Trip) DayIndex(date time.Time) int {
	days := int(DateOnly(date).Sub(DateOnly(t.StartDate)).Hours() / 24)
	if days < 0 {
		return 1
	}
	return days + 1
}
