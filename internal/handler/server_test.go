package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ramzez/hermes-travel/backend/internal/calendar"
	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/handler"
	"github.com/ramzez/hermes-travel/backend/internal/service"
)

// Hand-written test doubles for the handler's consumer interfaces.
// Set only the method fields your test needs.

type mockUserResolver struct {
	getByEmail func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockUserResolver) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}

var _ handler.UserResolver = (*mockUserResolver)(nil)

type mockTripServicer struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, userID, tripID int64) (domain.Trip, error)
	listByUser func(ctx context.Context, userID int64) ([]domain.Trip, error)
	delete     func(ctx context.Context, userID, tripID int64) error
}

func (m *mockTripServicer) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripServicer) GetByID(ctx context.Context, userID, tripID int64) (domain.Trip, error) {
	return m.getByID(ctx, userID, tripID)
}
func (m *mockTripServicer) ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID, tripID int64) error {
	return m.delete(ctx, userID, tripID)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockScheduleServicer struct {
	sheet        func(ctx context.Context, userID, tripID int64, selected time.Time) (service.DaySheet, error)
	calendarView func(ctx context.Context, userID, tripID int64, selected time.Time) (*calendar.View, error)
	createEvent  func(ctx context.Context, userID, tripID int64, in service.EventInput) (service.DaySheet, error)
	updateEvent  func(ctx context.Context, userID, tripID, eventID int64, in service.EventInput) (service.DaySheet, error)
	deleteEvent  func(ctx context.Context, userID, tripID, eventID int64, date time.Time) (service.DaySheet, error)
}

func (m *mockScheduleServicer) Sheet(ctx context.Context, userID, tripID int64, selected time.Time) (service.DaySheet, error) {
	return m.sheet(ctx, userID, tripID, selected)
}
func (m *mockScheduleServicer) CalendarView(ctx context.Context, userID, tripID int64, selected time.Time) (*calendar.View, error) {
	return m.calendarView(ctx, userID, tripID, selected)
}
func (m *mockScheduleServicer) CreateEvent(ctx context.Context, userID, tripID int64, in service.EventInput) (service.DaySheet, error) {
	return m.createEvent(ctx, userID, tripID, in)
}
func (m *mockScheduleServicer) UpdateEvent(ctx context.Context, userID, tripID, eventID int64, in service.EventInput) (service.DaySheet, error) {
	return m.updateEvent(ctx, userID, tripID, eventID, in)
}
func (m *mockScheduleServicer) DeleteEvent(ctx context.Context, userID, tripID, eventID int64, date time.Time) (service.DaySheet, error) {
	return m.deleteEvent(ctx, userID, tripID, eventID, date)
}

var _ handler.ScheduleServicer = (*mockScheduleServicer)(nil)

type mockChatServicer struct {
	open func(ctx context.Context, email string) (*service.Transcript, error)
	send func(ctx context.Context, t *service.Transcript, text string) (service.TranscriptEntry, error)
}

func (m *mockChatServicer) Open(ctx context.Context, email string) (*service.Transcript, error) {
	return m.open(ctx, email)
}
func (m *mockChatServicer) Send(ctx context.Context, t *service.Transcript, text string) (service.TranscriptEntry, error) {
	return m.send(ctx, t, text)
}

var _ handler.ChatServicer = (*mockChatServicer)(nil)

type mockExportServicer struct {
	rows        func(ctx context.Context, userID, tripID int64) ([]domain.ScheduleRow, error)
	calendarICS func(ctx context.Context, userID, tripID int64) (string, error)
}

func (m *mockExportServicer) Rows(ctx context.Context, userID, tripID int64) ([]domain.ScheduleRow, error) {
	return m.rows(ctx, userID, tripID)
}
func (m *mockExportServicer) CalendarICS(ctx context.Context, userID, tripID int64) (string, error) {
	return m.calendarICS(ctx, userID, tripID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

type mockDestinationLister struct {
	list func(ctx context.Context) ([]domain.Destination, error)
}

func (m *mockDestinationLister) List(ctx context.Context) ([]domain.Destination, error) {
	return m.list(ctx)
}

var _ handler.DestinationLister = (*mockDestinationLister)(nil)

// ---- helpers ---------------------------------------------------------------

// deps bundles the server's dependencies so tests only fill in what they use.
type deps struct {
	users        handler.UserResolver
	trips        handler.TripServicer
	schedule     handler.ScheduleServicer
	chat         handler.ChatServicer
	export       handler.ExportServicer
	destinations handler.DestinationLister
}

// newRouter wires a Server with the given mocks into its chi router, exactly
// as main.go does in production. Unset dependencies default to a resolver
// that knows the fixture user.
func newRouter(d deps) http.Handler {
	if d.users == nil {
		d.users = &mockUserResolver{
			getByEmail: func(_ context.Context, email string) (domain.User, error) {
				return domain.User{ID: 1, Email: email}, nil
			},
		}
	}
	return handler.NewServer(d.users, d.trips, d.schedule, d.chat, d.export, d.destinations).Routes()
}

// authedRequest builds a request carrying the identity header the platform
// sets on proxied calls.
func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", "ada@example.com")
	return req
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:        42,
		UserID:    1,
		Title:     "Japan",
		StartDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now().UTC(),
	}
}

func sheetFixture() service.DaySheet {
	return service.DaySheet{
		Trip:     tripFixture(),
		Selected: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Marked:   []time.Time{time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)},
		Events: []domain.TripEvent{
			{ID: 7, TripID: 42, Date: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), StartTime: "10:00:00", Place: "Fushimi Inari"},
		},
		Currency: "EUR",
	}
}
