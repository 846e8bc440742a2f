package domain

import "time"

// DateLayout is the wire format for calendar dates throughout the API.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date ("2006-01-02") into a UTC midnight
// time.Time. All domain dates are normalized this way so that equality and
// ordering comparisons behave like calendar-date comparisons.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders t as an ISO calendar date, dropping any time component.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOnly truncates t to UTC midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
