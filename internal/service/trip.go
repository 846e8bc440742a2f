// Package service contains the business logic for the Hermes API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	trips repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(trips repo.TripRepo) *TripService {
	return &TripService{trips: trips}
}

// Create validates and persists a new trip.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID, scoped to the given user.
// Returns domain.ErrNotFound if no trip with that ID exists for that user.
func (s *TripService) GetByID(ctx context.Context, userID, tripID int64) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns all trips owned by the user, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Delete removes a trip by ID, scoped to the given user. Events under the
// trip are removed with it.
func (s *TripService) Delete(ctx context.Context, userID, tripID int64) error {
	if err := s.trips.Delete(ctx, userID, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces business rules common to trip writes.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Both dates are required and the start must not be after the end.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrValidation)
	}
	if trip.StartDate.After(trip.EndDate) {
		return fmt.Errorf("%w: start date must not be after end date", domain.ErrValidation)
	}
	return nil
}
