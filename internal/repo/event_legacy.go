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

// legacyEventStore serves deployments that predate the unified trip_events
// table: one trip_days row per (trip, date) pair with activities nested
// under it. The day row is upserted on first write for a date, keyed by the
// (trip_id, date) unique constraint.
//
// Deletion is unsupported here on purpose: older deployments never had a
// delete path for activities, and the day-row bookkeeping would be left
// orphaned. See DESIGN.md.
type legacyEventStore struct {
	db db
}

// NewLegacyEventStore constructs an EventStore over the legacy
// trip_days/trip_activities pair.
func NewLegacyEventStore(db db) EventStore {
	return &legacyEventStore{db: db}
}

func (r *legacyEventStore) ListDates(ctx context.Context, tripID int64) ([]time.Time, error) {
	const q = `
		SELECT date
		FROM trip_days
		WHERE trip_id = @trip_id
		ORDER BY date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.legacyEventStore.ListDates: %w", schemaMissing(err, "trip_days"))
	}
	defer rows.Close()

	dates, err := collectDates(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.legacyEventStore.ListDates: %w", err)
	}
	return dates, nil
}

func (r *legacyEventStore) ListByDate(ctx context.Context, tripID int64, date time.Time) ([]domain.TripEvent, error) {
	day, err := r.findDay(ctx, tripID, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.TripEvent{}, nil
		}
		return nil, fmt.Errorf("repo.legacyEventStore.ListByDate: %w", err)
	}

	const q = `
		SELECT activity_id, start_time, end_time, notes, estimated_cost
		FROM trip_activities
		WHERE day_id = @day_id
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": day.ID})
	if err != nil {
		return nil, fmt.Errorf("repo.legacyEventStore.ListByDate: %w", schemaMissing(err, "trip_activities"))
	}
	defer rows.Close()

	events := []domain.TripEvent{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.legacyEventStore.ListByDate: scan: %w", err)
		}
		events = append(events, a.Event(tripID, day.Date))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.legacyEventStore.ListByDate: rows: %w", err)
	}

	return events, nil
}

// Create upserts the (trip, date) day row, then inserts the activity under
// it. The day index is the 1-based offset of the date from the trip start.
func (r *legacyEventStore) Create(ctx context.Context, trip domain.Trip, ev domain.TripEvent) (domain.TripEvent, error) {
	// The DO UPDATE SET trick forces RETURNING to fire even when the
	// conflict handler skips the insert.
	const upsertDay = `
		INSERT INTO trip_days (trip_id, date, day_index)
		VALUES (@trip_id, @date, @day_index)
		ON CONFLICT (trip_id, date) DO UPDATE SET day_index = EXCLUDED.day_index
		RETURNING day_id, trip_id, date, day_index`

	args := pgx.NamedArgs{
		"trip_id":   trip.ID,
		"date":      domain.DateOnly(ev.Date),
		"day_index": trip.DayIndex(ev.Date),
	}

	day, err := scanDay(r.db.QueryRow(ctx, upsertDay, args))
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("repo.legacyEventStore.Create: upsert day: %w", schemaMissing(err, "trip_days"))
	}

	const insertActivity = `
		INSERT INTO trip_activities (day_id, start_time, end_time, notes, estimated_cost)
		VALUES (@day_id, @start_time, @end_time, @notes, @estimated_cost)
		RETURNING activity_id, start_time, end_time, notes, estimated_cost`

	actArgs := pgx.NamedArgs{
		"day_id":         day.ID,
		"start_time":     ev.StartTime,
		"end_time":       nullableText(ev.EndTime),
		"notes":          nullableText(ev.Notes),
		"estimated_cost": ev.Cost,
	}

	a, err := scanActivity(r.db.QueryRow(ctx, insertActivity, actArgs))
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("repo.legacyEventStore.Create: insert activity: %w", schemaMissing(err, "trip_activities"))
	}

	return a.Event(trip.ID, day.Date), nil
}

// Update rewrites the activity record in place. The date is deliberately
// not part of the SET list: legacy activities are never relocated between
// day rows, so a changed date leaves the stored day untouched.
func (r *legacyEventStore) Update(ctx context.Context, ev domain.TripEvent) (domain.TripEvent, error) {
	const q = `
		UPDATE trip_activities
		SET start_time     = @start_time,
		    end_time       = @end_time,
		    notes          = @notes,
		    estimated_cost = @estimated_cost
		WHERE activity_id = @activity_id
		RETURNING activity_id, start_time, end_time, notes, estimated_cost`

	args := pgx.NamedArgs{
		"activity_id":    ev.ID,
		"start_time":     ev.StartTime,
		"end_time":       nullableText(ev.EndTime),
		"notes":          nullableText(ev.Notes),
		"estimated_cost": ev.Cost,
	}

	a, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("repo.legacyEventStore.Update: %w", schemaMissing(err, "trip_activities"))
	}

	return a.Event(ev.TripID, ev.Date), nil
}

// Delete is unsupported on the legacy schema.
func (r *legacyEventStore) Delete(ctx context.Context, eventID int64) error {
	return fmt.Errorf("repo.legacyEventStore.Delete: legacy schema does not support event deletion")
}

// findDay resolves the trip_days row for (tripID, date).
// Returns domain.ErrNotFound when the date has no day row.
func (r *legacyEventStore) findDay(ctx context.Context, tripID int64, date time.Time) (domain.TripDay, error) {
	const q = `
		SELECT day_id, trip_id, date, day_index
		FROM trip_days
		WHERE trip_id = @trip_id AND date = @date`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "date": domain.DateOnly(date)})
	day, err := scanDay(row)
	if err != nil {
		return domain.TripDay{}, schemaMissing(err, "trip_days")
	}
	return day, nil
}

// scanDay maps a single trip_days row into a domain.TripDay.
func scanDay(s scanner) (domain.TripDay, error) {
	var (
		day  domain.TripDay
		date pgtype.Date
	)

	err := s.Scan(&day.ID, &day.TripID, &date, &day.DayIndex)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripDay{}, domain.ErrNotFound
		}
		return domain.TripDay{}, err
	}

	day.Date = domain.DateOnly(date.Time)
	return day, nil
}

// scanActivity maps a single trip_activities row into a domain.TripActivity.
func scanActivity(s scanner) (domain.TripActivity, error) {
	var (
		a    domain.TripActivity
		end  pgtype.Text
		note pgtype.Text
		cost pgtype.Float8
	)

	err := s.Scan(&a.ID, &a.StartTime, &end, &note, &cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripActivity{}, domain.ErrNotFound
		}
		return domain.TripActivity{}, err
	}

	a.EndTime = end.String
	a.Notes = note.String
	if cost.Valid {
		c := cost.Float64
		a.Cost = &c
	}

	return a, nil
}
