package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func juneTrip() domain.Trip {
	return domain.Trip{
		ID:        1,
		UserID:    1,
		Title:     "Japan",
		StartDate: date(2025, 6, 10),
		EndDate:   date(2025, 6, 20),
	}
}

func TestTrip_Contains(t *testing.T) {
	trip := juneTrip()

	assert.True(t, trip.Contains(date(2025, 6, 10)), "start date is inclusive")
	assert.True(t, trip.Contains(date(2025, 6, 20)), "end date is inclusive")
	assert.True(t, trip.Contains(date(2025, 6, 15)))
	assert.False(t, trip.Contains(date(2025, 6, 9)))
	assert.False(t, trip.Contains(date(2025, 6, 21)))
}

func TestTrip_Contains_IgnoresTimeOfDay(t *testing.T) {
	trip := juneTrip()

	// 23:00 on the end date is still inside the trip.
	lateEnd := time.Date(2025, 6, 20, 23, 0, 0, 0, time.UTC)
	assert.True(t, trip.Contains(lateEnd))
}

func TestTrip_DayIndex(t *testing.T) {
	trip := juneTrip()

	assert.Equal(t, 1, trip.DayIndex(date(2025, 6, 10)), "start date is day 1")
	assert.Equal(t, 2, trip.DayIndex(date(2025, 6, 11)))
	assert.Equal(t, 11, trip.DayIndex(date(2025, 6, 20)))
	// Dates before the start floor at 1 rather than going to zero or negative.
	assert.Equal(t, 1, trip.DayIndex(date(2025, 6, 1)))
}

func TestParseDate(t *testing.T) {
	got, err := domain.ParseDate("2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 6, 10), got)
	assert.Equal(t, time.UTC, got.Location())

	_, err = domain.ParseDate("10/06/2025")
	assert.Error(t, err)
}

func TestFormatDate_DropsTime(t *testing.T) {
	ts := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-10", domain.FormatDate(ts))
}

func TestSameDate(t *testing.T) {
	a := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	assert.True(t, domain.SameDate(a, b))
	assert.False(t, domain.SameDate(a, b.AddDate(0, 0, 1)))
}
