// Package calendar builds week-by-week date grids for trip scheduling views.
// A grid covers either a whole calendar month or an explicit inclusive date
// range padded to full weeks. Building is pure and deterministic; the only
// stateful piece is the Picker, which tracks the selected date.
package calendar

import (
	"time"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// minRangeCells is the smallest number of day cells a range grid may show.
// Shorter ranges are padded with trailing weeks so the grid never renders
// visually short (5 weeks = 35 cells).
const minRangeCells = 35

// Cell is one selectable day in a grid. InRange is true when the date
// belongs to the displayed month (month mode) or falls inside the actual
// [start, end] range (range mode); padding cells render but are not
// selectable.
type Cell struct {
	Date       time.Time
	InRange    bool
	Marked     bool
	Selected   bool
	RangeStart bool
	RangeEnd   bool
}

// View is a fully materialized grid of weeks plus the range bounds used to
// gate selection. In month mode the bounds are zero and every cell is
// selectable.
type View struct {
	Weeks [][]Cell

	start time.Time // zero in month mode
	end   time.Time
}

// NewView builds the grid for a trip detail screen: range mode when a start
// date is supplied, month mode otherwise. A zero end date defaults to the
// start date.
func NewView(year int, month time.Month, rangeStart, rangeEnd time.Time) *View {
	if !rangeStart.IsZero() {
		return RangeView(rangeStart, rangeEnd)
	}
	return MonthView(year, month)
}

// MonthView builds the month-mode grid: exactly 6 weeks (42 cells) starting
// from the Sunday on or before the 1st of the month.
func MonthView(year int, month time.Month) *View {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	cursor := first.AddDate(0, 0, -int(first.Weekday()))

	weeks := make([][]Cell, 0, 6)
	for w := 0; w < 6; w++ {
		week := make([]Cell, 7)
		for d := 0; d < 7; d++ {
			week[d] = Cell{Date: cursor, InRange: cursor.Month() == month}
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return &View{Weeks: weeks}
}

// RangeView builds the range-mode grid for the inclusive [start, end] range.
// The grid extends start back to its week's Sunday and end forward to its
// week's Saturday, then pads further weeks until at least minRangeCells days
// are shown. A zero end defaults to start.
func RangeView(start, end time.Time) *View {
	start = domain.DateOnly(start)
	if end.IsZero() {
		end = start
	}
	end = domain.DateOnly(end)

	gridStart := start.AddDate(0, 0, -int(start.Weekday()))
	gridEnd := end.AddDate(0, 0, 6-int(end.Weekday()))

	if cells := daysBetween(gridStart, gridEnd) + 1; cells < minRangeCells {
		if minEnd := gridStart.AddDate(0, 0, minRangeCells-1); minEnd.After(gridEnd) {
			gridEnd = minEnd
		}
	}

	var weeks [][]Cell
	for cursor := gridStart; !cursor.After(gridEnd); {
		week := make([]Cell, 7)
		for d := 0; d < 7; d++ {
			week[d] = Cell{
				Date:       cursor,
				InRange:    !cursor.Before(start) && !cursor.After(end),
				RangeStart: cursor.Equal(start),
				RangeEnd:   cursor.Equal(end),
			}
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return &View{Weeks: weeks, start: start, end: end}
}

// Mark flags every cell whose date appears in dates as event-bearing.
func (v *View) Mark(dates []time.Time) {
	marked := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		marked[domain.DateOnly(d)] = true
	}
	for wi := range v.Weeks {
		for di := range v.Weeks[wi] {
			if marked[v.Weeks[wi][di].Date] {
				v.Weeks[wi][di].Marked = true
			}
		}
	}
}

// selectable reports whether date may be selected in this view. Month-mode
// views accept any date; range-mode views accept only in-range dates.
func (v *View) selectable(date time.Time) bool {
	if v.start.IsZero() {
		return true
	}
	d := domain.DateOnly(date)
	return !d.Before(v.start) && !d.After(v.end)
}

// setSelected moves the Selected flag to the cell for date, clearing it
// everywhere else.
func (v *View) setSelected(date time.Time) {
	d := domain.DateOnly(date)
	for wi := range v.Weeks {
		for di := range v.Weeks[wi] {
			v.Weeks[wi][di].Selected = v.Weeks[wi][di].Date.Equal(d)
		}
	}
}

// daysBetween returns the whole days from a to b; both are UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
