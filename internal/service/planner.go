package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/repo"
)

// Load-failure notices surfaced on the day sheet instead of failing the
// whole view. The schedule stays usable with empty state.
const (
	noticeDatesUnavailable  = "Could not load the trip's event dates."
	noticeEventsUnavailable = "Could not load the activities for this day."
)

// EventInput carries raw form values for creating or updating an event.
// Date is an ISO calendar date; Cost is free-form text run through the
// sanitizer (empty or non-numeric input means no cost recorded).
type EventInput struct {
	Date      string
	StartTime string
	EndTime   string
	Place     string
	Notes     string
	Cost      string
}

// DaySheet is the working set a trip detail view renders: the distinct
// event-bearing dates for the whole trip plus the events of the selected
// date. Notice carries non-fatal load problems for banner display.
type DaySheet struct {
	Trip     domain.Trip        `json:"trip"`
	Selected time.Time          `json:"selected"`
	Marked   []time.Time        `json:"marked"`
	Events   []domain.TripEvent `json:"events"`
	Currency string             `json:"currency,omitempty"`
	Notice   string             `json:"notice,omitempty"`
}

// Planner is the plan/event view-state controller for one trip: it holds
// the selected date, the marked-date set, and the selected date's events,
// and mediates event writes against the schedule store. After every
// successful create or update the working set is re-read from the store
// rather than patched locally, so reads always reflect whichever schema
// path actually served the write. Deletes only drop the entry from the
// local list, matching the original behavior.
type Planner struct {
	store repo.EventStore

	trip     domain.Trip
	currency string
	selected time.Time
	marked   []time.Time
	events   []domain.TripEvent
	notice   string
}

// NewPlanner constructs the controller for trip with the trip's start date
// selected. Call Load before reading the sheet.
func NewPlanner(store repo.EventStore, trip domain.Trip, currency string) *Planner {
	return &Planner{
		store:    store,
		trip:     trip,
		currency: currency,
		selected: domain.DateOnly(trip.StartDate),
		events:   []domain.TripEvent{},
	}
}

// Sheet returns a snapshot of the controller's working set.
func (p *Planner) Sheet() DaySheet {
	marked := p.marked
	if marked == nil {
		marked = []time.Time{}
	}
	return DaySheet{
		Trip:     p.trip,
		Selected: p.selected,
		Marked:   marked,
		Events:   p.events,
		Currency: p.currency,
		Notice:   p.notice,
	}
}

// Load refreshes the marked-date set and the selected date's events from
// the store. Load failures are non-fatal: the affected part of the working
// set stays empty and a notice is recorded for the view to display.
func (p *Planner) Load(ctx context.Context) {
	p.notice = ""

	marked, err := p.store.ListDates(ctx, p.trip.ID)
	if err != nil {
		p.marked = nil
		p.notice = noticeDatesUnavailable
	} else {
		p.marked = marked
	}

	events, err := p.store.ListByDate(ctx, p.trip.ID, p.selected)
	if err != nil {
		p.events = []domain.TripEvent{}
		p.notice = noticeEventsUnavailable
		return
	}
	p.events = events
}

// Select moves the selection to date and reloads that date's events.
// Dates outside the trip's range are silently ignored: the previous
// selection stays in place and no store call is made.
func (p *Planner) Select(ctx context.Context, date time.Time) {
	if !p.trip.Contains(date) {
		return
	}
	p.selected = domain.DateOnly(date)

	events, err := p.store.ListByDate(ctx, p.trip.ID, p.selected)
	if err != nil {
		p.events = []domain.TripEvent{}
		p.notice = noticeEventsUnavailable
		return
	}
	p.events = events
}

// CreateEvent validates in, persists the event, and re-reads the working
// set. Returns domain.ErrValidation before any store call when the date or
// start time is missing or the date falls outside the trip's range.
func (p *Planner) CreateEvent(ctx context.Context, in EventInput) error {
	ev, err := p.eventFromInput(in)
	if err != nil {
		return err
	}

	if _, err := p.store.Create(ctx, p.trip, ev); err != nil {
		return fmt.Errorf("service.Planner.CreateEvent: %w", err)
	}

	p.selected = ev.Date
	p.Load(ctx)
	return nil
}

// UpdateEvent validates in, rewrites the event, and re-reads the working
// set for the (possibly new) selected date. Same validation as CreateEvent.
func (p *Planner) UpdateEvent(ctx context.Context, eventID int64, in EventInput) error {
	ev, err := p.eventFromInput(in)
	if err != nil {
		return err
	}
	ev.ID = eventID

	if _, err := p.store.Update(ctx, ev); err != nil {
		return fmt.Errorf("service.Planner.UpdateEvent: %w", err)
	}

	p.selected = ev.Date
	p.Load(ctx)
	return nil
}

// DeleteEvent removes the event from the store and drops it from the local
// event list. Deleting an ID absent from the list is not an error; the
// list is simply left unchanged once the store call succeeds.
func (p *Planner) DeleteEvent(ctx context.Context, eventID int64) error {
	if err := p.store.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("service.Planner.DeleteEvent: %w", err)
	}

	kept := p.events[:0]
	for _, ev := range p.events {
		if ev.ID != eventID {
			kept = append(kept, ev)
		}
	}
	p.events = kept
	return nil
}

// eventFromInput validates raw form values and builds the domain event.
func (p *Planner) eventFromInput(in EventInput) (domain.TripEvent, error) {
	dateRaw := strings.TrimSpace(in.Date)
	start := strings.TrimSpace(in.StartTime)
	if dateRaw == "" || start == "" {
		return domain.TripEvent{}, fmt.Errorf("%w: date and start time are required", domain.ErrValidation)
	}

	date, err := domain.ParseDate(dateRaw)
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("%w: date must be formatted as %s", domain.ErrValidation, domain.DateLayout)
	}
	if !p.trip.Contains(date) {
		return domain.TripEvent{}, fmt.Errorf("%w: date must fall within the trip's range", domain.ErrValidation)
	}

	return domain.TripEvent{
		TripID:    p.trip.ID,
		Date:      date,
		StartTime: start,
		EndTime:   strings.TrimSpace(in.EndTime),
		Place:     strings.TrimSpace(in.Place),
		Notes:     strings.TrimSpace(in.Notes),
		Cost:      domain.ParseCost(domain.SanitizeCost(in.Cost)),
	}, nil
}
