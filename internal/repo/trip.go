// Package repo contains all database access logic for the Hermes API.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scanX
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// undefinedTableCode is the Postgres SQLSTATE raised when a statement names
// a relation that does not exist. It is the machine-readable half of the
// legacy-schema detection; the message match below is the fallback half for
// gateways that rewrite the code.
const undefinedTableCode = "42P01"

// schemaMissing translates an undefined-table failure into
// domain.ErrSchemaMissing so callers can fall back to the legacy tables.
// Any other error is returned unchanged.
func schemaMissing(err error, table string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == undefinedTableCode {
			return fmt.Errorf("%w: %s", domain.ErrSchemaMissing, table)
		}
	}
	return err
}

// TripRepo defines the persistence operations for Trips.
// All reads and deletes are scoped by userID to enforce ownership.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id and created_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by ID, scoped to the given userID.
	// Returns domain.ErrNotFound if no trip with that ID exists for that user.
	GetByID(ctx context.Context, userID, tripID int64) (domain.Trip, error)

	// ListByUser returns all trips owned by userID ordered by start_date
	// descending (most recent first).
	ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error)

	// Delete removes a trip by ID, scoped to the given userID. Events under
	// the trip are removed by the ON DELETE CASCADE constraints.
	// Returns domain.ErrNotFound if the trip does not exist for that user.
	Delete(ctx context.Context, userID, tripID int64) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, title, start_date, end_date)
		VALUES (@user_id, @title, @start_date, @end_date)
		RETURNING trip_id, user_id, title, start_date, end_date, created_at`

	args := pgx.NamedArgs{
		"user_id":    trip.UserID,
		"title":      trip.Title,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, userID, tripID int64) (domain.Trip, error) {
	const q = `
		SELECT trip_id, user_id, title, start_date, end_date, created_at
		FROM trips
		WHERE trip_id = @trip_id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error) {
	const q = `
		SELECT trip_id, user_id, title, start_date, end_date, created_at
		FROM trips
		WHERE user_id = @user_id
		ORDER BY start_date DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, userID, tripID int64) error {
	const q = `DELETE FROM trips WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t     domain.Trip
		start pgtype.Date
		end   pgtype.Date
	)

	err := s.Scan(&t.ID, &t.UserID, &t.Title, &start, &end, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.StartDate = domain.DateOnly(start.Time)
	t.EndDate = domain.DateOnly(end.Time)

	return t, nil
}
