package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/repo"
)

// icsProductID identifies this application in exported calendars.
const icsProductID = "-//Hermes Travel//Trip Schedule//EN"

// ExportService assembles flat schedule exports and iCalendar feeds for a
// single trip. It reads through the same EventStore as the planner, so
// exports reflect whichever schema path serves the deployment.
type ExportService struct {
	trips  repo.TripRepo
	events repo.EventStore
	users  repo.UserRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, events repo.EventStore, users repo.UserRepo) *ExportService {
	return &ExportService{trips: trips, events: events, users: users}
}

// Rows returns one ScheduleRow per event of the trip, ordered by date then
// start time. A trip with no events yields one row with empty event fields.
func (s *ExportService) Rows(ctx context.Context, userID, tripID int64) ([]domain.ScheduleRow, error) {
	trip, currency, events, err := s.load(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}

	base := domain.ScheduleRow{
		TripID:    trip.ID,
		TripTitle: trip.Title,
		TripStart: domain.FormatDate(trip.StartDate),
		TripEnd:   domain.FormatDate(trip.EndDate),
		Currency:  currency,
	}

	if len(events) == 0 {
		return []domain.ScheduleRow{base}, nil
	}

	rows := make([]domain.ScheduleRow, 0, len(events))
	for _, ev := range events {
		row := base
		row.Date = domain.FormatDate(ev.Date)
		row.StartTime = domain.ClockLabel(ev.StartTime)
		row.EndTime = domain.ClockLabel(ev.EndTime)
		row.Place = ev.Place
		row.Notes = ev.Notes
		row.Cost = ev.Cost
		rows = append(rows, row)
	}
	return rows, nil
}

// CalendarICS renders the trip's schedule as an iCalendar document. Events
// with a parseable start clock become timed entries (one hour long when no
// end clock is given); anything else becomes an all-day entry.
func (s *ExportService) CalendarICS(ctx context.Context, userID, tripID int64) (string, error) {
	trip, _, events, err := s.load(ctx, userID, tripID)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.CalendarICS: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(trip.Title)

	now := time.Now().UTC()
	for _, ev := range events {
		e := cal.AddEvent(fmt.Sprintf("event-%d@hermes-travel", ev.ID))
		e.SetDtStampTime(now)
		e.SetSummary(eventSummary(ev))
		if ev.Place != "" {
			e.SetLocation(ev.Place)
		}
		if ev.Notes != "" {
			e.SetDescription(ev.Notes)
		}

		start, err := clockOn(ev.Date, ev.StartTime)
		if err != nil {
			e.SetAllDayStartAt(ev.Date)
			e.SetAllDayEndAt(ev.Date.AddDate(0, 0, 1))
			continue
		}
		e.SetStartAt(start)
		if end, err := clockOn(ev.Date, ev.EndTime); err == nil && end.After(start) {
			e.SetEndAt(end)
		} else {
			e.SetEndAt(start.Add(time.Hour))
		}
	}

	return cal.Serialize(), nil
}

// load gathers the trip, the owner's currency preference (best effort), and
// all events across the trip's marked dates.
func (s *ExportService) load(ctx context.Context, userID, tripID int64) (domain.Trip, string, []domain.TripEvent, error) {
	trip, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return domain.Trip{}, "", nil, err
	}

	// Currency is cosmetic on exports; a failed preference read never
	// blocks the export itself.
	currency, err := s.users.PreferredCurrency(ctx, userID)
	if err != nil {
		currency = ""
	}

	dates, err := s.events.ListDates(ctx, tripID)
	if err != nil {
		return domain.Trip{}, "", nil, err
	}

	var events []domain.TripEvent
	for _, date := range dates {
		dayEvents, err := s.events.ListByDate(ctx, tripID, date)
		if err != nil {
			return domain.Trip{}, "", nil, err
		}
		events = append(events, dayEvents...)
	}

	return trip, currency, events, nil
}

// eventSummary picks the display title for an exported event.
func eventSummary(ev domain.TripEvent) string {
	switch {
	case ev.Place != "":
		return ev.Place
	case ev.Notes != "":
		return ev.Notes
	default:
		return "Trip activity"
	}
}

// clockOn combines a calendar date with an "HH:MM" wall-clock string.
func clockOn(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", domain.ClockLabel(clock))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
