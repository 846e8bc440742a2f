package repo

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// fallbackEventStore selects between the unified and legacy schedule
// schemas. Every call tries the unified store first; the first
// domain.ErrSchemaMissing flips the store to the legacy tables and the
// decision is cached for the life of the process, so later calls skip the
// failed probe.
//
// Delete is the one asymmetric operation: it always targets the unified
// table and never falls back, matching the original system (legacy
// activities were effectively immutable-delete).
type fallbackEventStore struct {
	unified EventStore
	legacy  EventStore

	legacyOnly atomic.Bool
}

// NewEventStore returns the EventStore services should use: the unified
// trip_events implementation with a lazily-detected legacy fallback.
func NewEventStore(db db) EventStore {
	return &fallbackEventStore{
		unified: NewUnifiedEventStore(db),
		legacy:  NewLegacyEventStore(db),
	}
}

func (s *fallbackEventStore) ListDates(ctx context.Context, tripID int64) ([]time.Time, error) {
	if s.legacyOnly.Load() {
		return s.legacy.ListDates(ctx, tripID)
	}
	dates, err := s.unified.ListDates(ctx, tripID)
	if errors.Is(err, domain.ErrSchemaMissing) {
		s.legacyOnly.Store(true)
		return s.legacy.ListDates(ctx, tripID)
	}
	return dates, err
}

func (s *fallbackEventStore) ListByDate(ctx context.Context, tripID int64, date time.Time) ([]domain.TripEvent, error) {
	if s.legacyOnly.Load() {
		return s.legacy.ListByDate(ctx, tripID, date)
	}
	events, err := s.unified.ListByDate(ctx, tripID, date)
	if errors.Is(err, domain.ErrSchemaMissing) {
		s.legacyOnly.Store(true)
		return s.legacy.ListByDate(ctx, tripID, date)
	}
	return events, err
}

func (s *fallbackEventStore) Create(ctx context.Context, trip domain.Trip, ev domain.TripEvent) (domain.TripEvent, error) {
	if s.legacyOnly.Load() {
		return s.legacy.Create(ctx, trip, ev)
	}
	created, err := s.unified.Create(ctx, trip, ev)
	if errors.Is(err, domain.ErrSchemaMissing) {
		s.legacyOnly.Store(true)
		return s.legacy.Create(ctx, trip, ev)
	}
	return created, err
}

func (s *fallbackEventStore) Update(ctx context.Context, ev domain.TripEvent) (domain.TripEvent, error) {
	if s.legacyOnly.Load() {
		return s.legacy.Update(ctx, ev)
	}
	updated, err := s.unified.Update(ctx, ev)
	if errors.Is(err, domain.ErrSchemaMissing) {
		s.legacyOnly.Store(true)
		return s.legacy.Update(ctx, ev)
	}
	return updated, err
}

// Delete always goes to the unified table; there is no legacy path.
func (s *fallbackEventStore) Delete(ctx context.Context, eventID int64) error {
	return s.unified.Delete(ctx, eventID)
}
