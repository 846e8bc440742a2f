package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

func TestClockLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:30", "09:30"},
		{"09:30:00", "09:30"}, // Postgres time values carry seconds
		{"9:30", "9:30"},
		{"", ""},
		{"morning", "morni"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.ClockLabel(tt.in), "input %q", tt.in)
	}
}

func TestTripActivity_Event(t *testing.T) {
	cost := 25.0
	act := domain.TripActivity{
		ID:        7,
		DayID:     3,
		StartTime: "10:00",
		EndTime:   "11:30",
		Notes:     "museum tickets",
		Cost:      &cost,
	}
	d := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	ev := act.Event(42, d)

	assert.Equal(t, int64(7), ev.ID)
	assert.Equal(t, int64(42), ev.TripID)
	assert.Equal(t, d, ev.Date)
	assert.Equal(t, "10:00", ev.StartTime)
	assert.Equal(t, "11:30", ev.EndTime)
	assert.Equal(t, "museum tickets", ev.Notes)
	assert.Equal(t, &cost, ev.Cost)
	// The legacy schema has no place column, so the converted event never has one.
	assert.Empty(t, ev.Place)
}
