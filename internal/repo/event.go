package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// EventStore defines the persistence operations for a trip's scheduled
// events. Two implementations exist: the unified trip_events table and the
// legacy trip_days/trip_activities pair. NewEventStore returns a selector
// that picks between them per deployment; services only ever see this
// interface.
type EventStore interface {
	// ListDates returns the distinct set of dates with at least one event
	// for the trip, ordered ascending.
	ListDates(ctx context.Context, tripID int64) ([]time.Time, error)

	// ListByDate returns all events for the trip on the given date, ordered
	// by start time ascending. The slice is empty (not nil) when the date
	// has no events.
	ListByDate(ctx context.Context, tripID int64, date time.Time) ([]domain.TripEvent, error)

	// Create inserts a new event and returns the persisted record. The
	// owning trip is passed so the legacy implementation can derive the
	// day index from the trip's start date.
	Create(ctx context.Context, trip domain.Trip, ev domain.TripEvent) (domain.TripEvent, error)

	// Update overwrites the mutable fields of an event. The legacy
	// implementation updates the activity record in place and never
	// relocates it under another day row, even when the date changed.
	Update(ctx context.Context, ev domain.TripEvent) (domain.TripEvent, error)

	// Delete removes an event by ID. Only the unified schema supports
	// deletion. Returns domain.ErrNotFound when no event matches.
	Delete(ctx context.Context, eventID int64) error
}

// pgEventStore is the unified-schema implementation backed by trip_events.
// Undefined-table failures are reported as domain.ErrSchemaMissing so the
// selector can fall back to the legacy tables.
type pgEventStore struct {
	db db
}

// NewUnifiedEventStore constructs an EventStore over the trip_events table.
func NewUnifiedEventStore(db db) EventStore {
	return &pgEventStore{db: db}
}

func (r *pgEventStore) ListDates(ctx context.Context, tripID int64) ([]time.Time, error) {
	const q = `
		SELECT DISTINCT date
		FROM trip_events
		WHERE trip_id = @trip_id
		ORDER BY date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.EventStore.ListDates: %w", schemaMissing(err, "trip_events"))
	}
	defer rows.Close()

	dates, err := collectDates(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.EventStore.ListDates: %w", err)
	}
	return dates, nil
}

func (r *pgEventStore) ListByDate(ctx context.Context, tripID int64, date time.Time) ([]domain.TripEvent, error) {
	const q = `
		SELECT event_id, trip_id, date, start_time, end_time, place_name, notes, estimated_cost
		FROM trip_events
		WHERE trip_id = @trip_id AND date = @date
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "date": domain.DateOnly(date)})
	if err != nil {
		return nil, fmt.Errorf("repo.EventStore.ListByDate: %w", schemaMissing(err, "trip_events"))
	}
	defer rows.Close()

	events := []domain.TripEvent{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventStore.ListByDate: scan: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventStore.ListByDate: rows: %w", err)
	}

	return events, nil
}

func (r *pgEventStore) Create(ctx context.Context, trip domain.Trip, ev domain.TripEvent) (domain.TripEvent, error) {
	const q = `
		INSERT INTO trip_events (trip_id, date, start_time, end_time, place_name, notes, estimated_cost)
		VALUES (@trip_id, @date, @start_time, @end_time, @place_name, @notes, @estimated_cost)
		RETURNING event_id, trip_id, date, start_time, end_time, place_name, notes, estimated_cost`

	args := pgx.NamedArgs{
		"trip_id":        trip.ID,
		"date":           domain.DateOnly(ev.Date),
		"start_time":     ev.StartTime,
		"end_time":       nullableText(ev.EndTime),
		"place_name":     nullableText(ev.Place),
		"notes":          nullableText(ev.Notes),
		"estimated_cost": ev.Cost, // nil becomes NULL
	}

	result, err := scanEvent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("repo.EventStore.Create: %w", schemaMissing(err, "trip_events"))
	}
	return result, nil
}

func (r *pgEventStore) Update(ctx context.Context, ev domain.TripEvent) (domain.TripEvent, error) {
	const q = `
		UPDATE trip_events
		SET date           = @date,
		    start_time     = @start_time,
		    end_time       = @end_time,
		    place_name     = @place_name,
		    notes          = @notes,
		    estimated_cost = @estimated_cost
		WHERE event_id = @event_id
		RETURNING event_id, trip_id, date, start_time, end_time, place_name, notes, estimated_cost`

	args := pgx.NamedArgs{
		"event_id":       ev.ID,
		"date":           domain.DateOnly(ev.Date),
		"start_time":     ev.StartTime,
		"end_time":       nullableText(ev.EndTime),
		"place_name":     nullableText(ev.Place),
		"notes":          nullableText(ev.Notes),
		"estimated_cost": ev.Cost,
	}

	result, err := scanEvent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("repo.EventStore.Update: %w", schemaMissing(err, "trip_events"))
	}
	return result, nil
}

func (r *pgEventStore) Delete(ctx context.Context, eventID int64) error {
	const q = `DELETE FROM trip_events WHERE event_id = @event_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"event_id": eventID})
	if err != nil {
		return fmt.Errorf("repo.EventStore.Delete: %w", schemaMissing(err, "trip_events"))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventStore.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanEvent maps a single trip_events row into a domain.TripEvent.
// end_time, place_name, and notes are nullable text; estimated_cost is a
// nullable numeric.
func scanEvent(s scanner) (domain.TripEvent, error) {
	var (
		ev    domain.TripEvent
		date  pgtype.Date
		end   pgtype.Text
		place pgtype.Text
		notes pgtype.Text
		cost  pgtype.Float8
	)

	err := s.Scan(&ev.ID, &ev.TripID, &date, &ev.StartTime, &end, &place, &notes, &cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripEvent{}, domain.ErrNotFound
		}
		return domain.TripEvent{}, err
	}

	ev.Date = domain.DateOnly(date.Time)
	ev.EndTime = end.String
	ev.Place = place.String
	ev.Notes = notes.String
	if cost.Valid {
		c := cost.Float64
		ev.Cost = &c
	}

	return ev, nil
}

// collectDates drains a single-column date result set into UTC midnights.
func collectDates(rows pgx.Rows) ([]time.Time, error) {
	var dates []time.Time
	for rows.Next() {
		var d pgtype.Date
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, domain.DateOnly(d.Time))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dates, nil
}

// nullableText maps the empty string to NULL so optional columns stay NULL
// instead of collecting empty strings.
func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
