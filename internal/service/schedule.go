package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ramzez/hermes-travel/backend/internal/calendar"
	"github.com/ramzez/hermes-travel/backend/internal/repo"
)

// ScheduleService is the request-facing facade over the Planner controller:
// each call resolves the trip (scoped to its owner), builds a Planner for
// it, runs one operation, and returns the resulting day sheet. The remote
// store stays the source of truth between calls; nothing is cached.
type ScheduleService struct {
	trips repo.TripRepo
	store repo.EventStore
	users repo.UserRepo
}

// NewScheduleService constructs a ScheduleService backed by the provided repos.
func NewScheduleService(trips repo.TripRepo, store repo.EventStore, users repo.UserRepo) *ScheduleService {
	return &ScheduleService{trips: trips, store: store, users: users}
}

// Sheet loads the trip's day sheet. When selected is non-zero the selection
// moves there first; out-of-range dates are ignored and the trip's start
// date stays selected.
func (s *ScheduleService) Sheet(ctx context.Context, userID, tripID int64, selected time.Time) (DaySheet, error) {
	p, err := s.open(ctx, userID, tripID)
	if err != nil {
		return DaySheet{}, fmt.Errorf("service.ScheduleService.Sheet: %w", err)
	}
	p.Load(ctx)
	if !selected.IsZero() {
		p.Select(ctx, selected)
	}
	return p.Sheet(), nil
}

// CalendarView builds the range-mode grid for the trip's span with marked
// and selected flags applied. A failed marked-date load leaves the grid
// unmarked rather than failing the view.
func (s *ScheduleService) CalendarView(ctx context.Context, userID, tripID int64, selected time.Time) (*calendar.View, error) {
	trip, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.CalendarView: %w", err)
	}

	view := calendar.RangeView(trip.StartDate, trip.EndDate)
	if dates, err := s.store.ListDates(ctx, tripID); err == nil {
		view.Mark(dates)
	}

	picker := calendar.NewPicker(view, nil)
	if selected.IsZero() {
		selected = trip.StartDate
	}
	if !picker.Select(selected) {
		picker.Select(trip.StartDate)
	}

	return view, nil
}

// CreateEvent validates and persists a new event, then returns the
// refreshed day sheet for the event's date.
func (s *ScheduleService) CreateEvent(ctx context.Context, userID, tripID int64, in EventInput) (DaySheet, error) {
	p, err := s.open(ctx, userID, tripID)
	if err != nil {
		return DaySheet{}, fmt.Errorf("service.ScheduleService.CreateEvent: %w", err)
	}
	if err := p.CreateEvent(ctx, in); err != nil {
		return DaySheet{}, err
	}
	return p.Sheet(), nil
}

// UpdateEvent validates and rewrites an event, then returns the refreshed
// day sheet for the (possibly new) date.
func (s *ScheduleService) UpdateEvent(ctx context.Context, userID, tripID, eventID int64, in EventInput) (DaySheet, error) {
	p, err := s.open(ctx, userID, tripID)
	if err != nil {
		return DaySheet{}, fmt.Errorf("service.ScheduleService.UpdateEvent: %w", err)
	}
	if err := p.UpdateEvent(ctx, eventID, in); err != nil {
		return DaySheet{}, err
	}
	return p.Sheet(), nil
}

// DeleteEvent removes an event and returns the day sheet for date with the
// entry dropped from the local list (no refetch after delete).
func (s *ScheduleService) DeleteEvent(ctx context.Context, userID, tripID, eventID int64, date time.Time) (DaySheet, error) {
	p, err := s.open(ctx, userID, tripID)
	if err != nil {
		return DaySheet{}, fmt.Errorf("service.ScheduleService.DeleteEvent: %w", err)
	}
	p.Load(ctx)
	if !date.IsZero() {
		p.Select(ctx, date)
	}
	if err := p.DeleteEvent(ctx, eventID); err != nil {
		return DaySheet{}, err
	}
	return p.Sheet(), nil
}

// open resolves the trip for its owner and builds a fresh Planner. The
// currency preference is cosmetic and loaded best effort.
func (s *ScheduleService) open(ctx context.Context, userID, tripID int64) (*Planner, error) {
	trip, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	currency, err := s.users.PreferredCurrency(ctx, userID)
	if err != nil {
		currency = ""
	}
	return NewPlanner(s.store, trip, currency), nil
}
