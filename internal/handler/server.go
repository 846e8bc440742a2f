// Package handler implements the HTTP handlers for the Hermes API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, schedule.go, chat.go, ...) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramzez/hermes-travel/backend/internal/calendar"
	"github.com/ramzez/hermes-travel/backend/internal/domain"
	"github.com/ramzez/hermes-travel/backend/internal/service"
)

// The consumer-side interfaces below follow the Go convention of "accept
// interfaces, return concrete types": each names exactly the business
// operations this package calls, so handler tests can inject mocks without
// touching the database or the service layer.

// UserResolver maps account emails to application user rows.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, tripID int64) (domain.Trip, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error)
	Delete(ctx context.Context, userID, tripID int64) error
}

// ScheduleServicer defines the day-sheet and event operations.
type ScheduleServicer interface {
	Sheet(ctx context.Context, userID, tripID int64, selected time.Time) (service.DaySheet, error)
	CalendarView(ctx context.Context, userID, tripID int64, selected time.Time) (*calendar.View, error)
	CreateEvent(ctx context.Context, userID, tripID int64, in service.EventInput) (service.DaySheet, error)
	UpdateEvent(ctx context.Context, userID, tripID, eventID int64, in service.EventInput) (service.DaySheet, error)
	DeleteEvent(ctx context.Context, userID, tripID, eventID int64, date time.Time) (service.DaySheet, error)
}

// ChatServicer defines the transcript operations.
type ChatServicer interface {
	Open(ctx context.Context, email string) (*service.Transcript, error)
	Send(ctx context.Context, t *service.Transcript, text string) (service.TranscriptEntry, error)
}

// ExportServicer defines the schedule export operations.
type ExportServicer interface {
	Rows(ctx context.Context, userID, tripID int64) ([]domain.ScheduleRow, error)
	CalendarICS(ctx context.Context, userID, tripID int64) (string, error)
}

// DestinationLister reads the destination catalogue.
type DestinationLister interface {
	List(ctx context.Context) ([]domain.Destination, error)
}

// Server holds the dependencies shared by every handler method.
type Server struct {
	users        UserResolver
	trips        TripServicer
	schedule     ScheduleServicer
	chat         ChatServicer
	export       ExportServicer
	destinations DestinationLister
}

// NewServer constructs the Server with all its dependencies.
func NewServer(users UserResolver, trips TripServicer, schedule ScheduleServicer, chat ChatServicer, export ExportServicer, destinations DestinationLister) *Server {
	return &Server{
		users:        users,
		trips:        trips,
		schedule:     schedule,
		chat:         chat,
		export:       export,
		destinations: destinations,
	}
}

// Routes mounts every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)

	// Query-proxy surface consumed by the mobile client.
	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.getPing)
		r.Get("/destinations", s.listDestinations)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.listTrips)
		r.Post("/", s.createTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.getTrip)
			r.Delete("/", s.deleteTrip)
			r.Get("/schedule", s.getSchedule)
			r.Get("/calendar", s.getCalendar)
			r.Get("/calendar.ics", s.getCalendarICS)
			r.Get("/export", s.getExport)
			r.Post("/events", s.createEvent)
			r.Put("/events/{eventID}", s.updateEvent)
			r.Delete("/events/{eventID}", s.deleteEvent)
		})
	})

	r.Route("/chat", func(r chi.Router) {
		r.Get("/", s.getChat)
		r.Post("/messages", s.postChatMessage)
	})

	return r
}

// currentUser resolves the authenticated account for a request. The managed
// identity platform in front of this API sets X-User-Email on every proxied
// request; a missing header is an unauthenticated call.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	email := r.Header.Get("X-User-Email")
	if email == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing X-User-Email header")
		return domain.User{}, false
	}

	user, err := s.users.GetByEmail(r.Context(), email)
	if err != nil {
		respondServiceError(w, r, err, "user profile not found")
		return domain.User{}, false
	}
	return user, true
}

// pathID parses the named chi URL parameter as an int64 ID.
func pathID(r *http.Request, name string) (int64, error) {
	return parseID(chi.URLParam(r, name))
}
