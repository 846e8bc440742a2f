package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/repo"
	"github.com/ramzez/hermes-travel/backend/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, userID, tripID int64) (domain.Trip, error)
	listByUser func(ctx context.Context, userID int64) ([]domain.Trip, error)
	delete     func(ctx context.Context, userID, tripID int64) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, userID, tripID int64) (domain.Trip, error) {
	return m.getByID(ctx, userID, tripID)
}
func (m *mockTripRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockTripRepo) Delete(ctx context.Context, userID, tripID int64) error {
	return m.delete(ctx, userID, tripID)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validTrip() domain.Trip {
	return domain.Trip{
		UserID:    1,
		Title:     "Japan",
		StartDate: date(2025, 6, 10),
		EndDate:   date(2025, 6, 20),
	}
}

func echoTripRepo() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	got, err := svc.Create(context.Background(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, "Japan", got.Title)
}

func TestTripService_Create_MissingTitle(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.Title = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_MissingDates(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.EndDate = time.Time{}

	_, err := svc.Create(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_StartAfterEnd(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.StartDate = trip.EndDate.AddDate(0, 0, 1)

	_, err := svc.Create(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_SameDayTrip(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validTrip()
	trip.EndDate = trip.StartDate

	_, err := svc.Create(context.Background(), trip)

	// A one-day trip is valid.
	assert.NoError(t, err)
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, repoErr
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), validTrip())

	assert.ErrorIs(t, err, repoErr)
}

// ---- GetByID tests ---------------------------------------------------------

func TestTripService_GetByID_Found(t *testing.T) {
	want := validTrip()
	want.ID = 42

	r := &mockTripRepo{
		getByID: func(_ context.Context, userID, tripID int64) (domain.Trip, error) {
			assert.Equal(t, int64(1), userID)
			assert.Equal(t, int64(42), tripID)
			return want, nil
		},
	}
	svc := service.NewTripService(r)

	got, err := svc.GetByID(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _, _ int64) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.GetByID(context.Background(), 1, 42)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ListByUser tests ------------------------------------------------------

func TestTripService_ListByUser(t *testing.T) {
	r := &mockTripRepo{
		listByUser: func(_ context.Context, _ int64) ([]domain.Trip, error) {
			return []domain.Trip{validTrip(), validTrip()}, nil
		},
	}
	svc := service.NewTripService(r)

	got, err := svc.ListByUser(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTripService_ListByUser_Empty(t *testing.T) {
	r := &mockTripRepo{
		listByUser: func(_ context.Context, _ int64) ([]domain.Trip, error) { return nil, nil },
	}
	svc := service.NewTripService(r)

	got, err := svc.ListByUser(context.Background(), 1)

	require.NoError(t, err)
	// Should return an empty slice, not nil; callers can safely range over it.
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Delete tests ----------------------------------------------------------

func TestTripService_Delete_OK(t *testing.T) {
	r := &mockTripRepo{
		delete: func(_ context.Context, _, _ int64) error { return nil },
	}
	svc := service.NewTripService(r)

	assert.NoError(t, svc.Delete(context.Background(), 1, 42))
}

func TestTripService_Delete_NotFound(t *testing.T) {
	r := &mockTripRepo{
		delete: func(_ context.Context, _, _ int64) error { return domain.ErrNotFound },
	}
	svc := service.NewTripService(r)

	err := svc.Delete(context.Background(), 1, 42)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
