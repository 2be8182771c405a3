// Package handler implements the HTTP handlers of the hotel and fleet API.
// All handlers are methods on Server. They are split into resource files
// (ride_request.go, ride.go, ...) but share the same Server struct so they can
// reach its dependencies.
//
// A handler only decodes input, resolves the caller and encodes output. Every
// decision (ownership, lifecycle, validation) belongs to the service layer.
package handler

import (
	"context"
	"log/slog"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/service"
)

// The Servicer interfaces below are defined in the consumer package so handler
// tests can inject mocks without touching the database or service layer.

// AuthServicer logs callers in and registers accounts.
type AuthServicer interface {
	Login(ctx context.Context, email, password string) (service.Session, error)
	Register(ctx context.Context, in service.Registration) (service.Session, error)
	RegisterStaff(ctx context.Context, actor domain.Actor, in service.StaffRegistration) (service.StaffAccount, error)
}

// RideRequestServicer is the ride request lifecycle.
type RideRequestServicer interface {
	Create(ctx context.Context, actor domain.Actor, in domain.RideRequest) (domain.RideRequest, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (domain.RideRequest, error)
	List(ctx context.Context, actor domain.Actor, p domain.PaginationParams) (domain.Page[domain.RideRequest], error)
	Accept(ctx context.Context, actor domain.Actor, id, personnelID int64) (domain.RideRequest, error)
	Refuse(ctx context.Context, actor domain.Actor, id, personnelID int64) (domain.RideRequest, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64) error
}

// RideServicer is the ride lifecycle.
type RideServicer interface {
	Create(ctx context.Context, actor domain.Actor, requestID int64, sched service.Schedule) (domain.Ride, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (domain.RideWithRequest, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, target domain.RideStatus) (domain.Ride, error)
	Reschedule(ctx context.Context, actor domain.Actor, id int64, sched service.Schedule) (domain.Ride, error)
}

// DocumentServicer manages driver documents.
type DocumentServicer interface {
	Create(ctx context.Context, actor domain.Actor, d domain.DriverDocument) (domain.DriverDocument, error)
	Upload(ctx context.Context, actor domain.Actor, d domain.DriverDocument, f service.Upload) (domain.DriverDocument, error)
	List(ctx context.Context, actor domain.Actor, f service.DocumentFilter, p domain.PaginationParams) (domain.Page[domain.DriverDocument], error)
	Validate(ctx context.Context, actor domain.Actor, id int64, isValid bool) (domain.DriverDocument, error)
}

// ReservationServicer keeps room bookings.
type ReservationServicer interface {
	Create(ctx context.Context, actor domain.Actor, in domain.Reservation) (domain.Reservation, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (domain.Reservation, error)
	ListForClient(ctx context.Context, actor domain.Actor, clientID int64, p domain.PaginationParams) (domain.Page[domain.Reservation], error)
}

// ReviewServicer handles reviews and staff responses.
type ReviewServicer interface {
	Create(ctx context.Context, actor domain.Actor, in domain.Review) (domain.Review, error)
	Respond(ctx context.Context, actor domain.Actor, id int64, response string) (domain.Review, error)
	List(ctx context.Context, actor domain.Actor, reservationID int64, p domain.PaginationParams) (domain.Page[domain.Review], error)
}

// TicketServicer handles support tickets.
type TicketServicer interface {
	Create(ctx context.Context, actor domain.Actor, in domain.SupportTicket) (domain.SupportTicket, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (domain.SupportTicket, error)
	Assign(ctx context.Context, actor domain.Actor, id, personnelID int64) (domain.SupportTicket, error)
	Close(ctx context.Context, actor domain.Actor, id int64) (domain.SupportTicket, error)
	List(ctx context.Context, actor domain.Actor, status string, p domain.PaginationParams) (domain.Page[domain.SupportTicket], error)
}

// ActorResolver maps a verified principal onto its domain identity. It is
// called on every authenticated request; results are never cached.
type ActorResolver interface {
	Resolve(ctx context.Context, p domain.Principal) (domain.Actor, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps lists everything the handlers need. Nil servicers are allowed in tests
// that do not exercise them.
type Deps struct {
	Auth         AuthServicer
	RideRequests RideRequestServicer
	Rides        RideServicer
	Documents    DocumentServicer
	Reservations ReservationServicer
	Reviews      ReviewServicer
	Tickets      TicketServicer
	Actors       ActorResolver
	DB           Pinger
	Logger       *slog.Logger
}

// Server holds the handler dependencies.
type Server struct {
	auth         AuthServicer
	rideRequests RideRequestServicer
	rides        RideServicer
	documents    DocumentServicer
	reservations ReservationServicer
	reviews      ReviewServicer
	tickets      TicketServicer
	actors       ActorResolver
	db           Pinger
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		auth:         d.Auth,
		rideRequests: d.RideRequests,
		rides:        d.Rides,
		documents:    d.Documents,
		reservations: d.Reservations,
		reviews:      d.Reviews,
		tickets:      d.Tickets,
		actors:       d.Actors,
		db:           d.DB,
		log:          log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Deps{})
}
