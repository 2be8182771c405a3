package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/events"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset field panics, which flags an
// unexpected repo call.

// ---- accounts --------------------------------------------------------------

type mockAccountRepo struct {
	getByEmail        func(ctx context.Context, email string) (domain.Account, error)
	registerClient    func(ctx context.Context, a domain.Account, c domain.Client) (domain.Account, domain.Client, error)
	registerPersonnel func(ctx context.Context, a domain.Account, p domain.Personnel) (domain.Account, domain.Personnel, error)
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockAccountRepo) GetClientByAccountID(context.Context, int64) (domain.Client, error) {
	panic("unexpected call")
}
func (m *mockAccountRepo) GetPersonnelByAccountID(context.Context, int64) (domain.Personnel, error) {
	panic("unexpected call")
}
func (m *mockAccountRepo) RegisterClient(ctx context.Context, a domain.Account, c domain.Client) (domain.Account, domain.Client, error) {
	return m.registerClient(ctx, a, c)
}
func (m *mockAccountRepo) RegisterPersonnel(ctx context.Context, a domain.Account, p domain.Personnel) (domain.Account, domain.Personnel, error) {
	return m.registerPersonnel(ctx, a, p)
}

var _ repo.AccountRepo = (*mockAccountRepo)(nil)

// ---- ride requests ---------------------------------------------------------

type mockRideRequestRepo struct {
	create         func(ctx context.Context, rr domain.RideRequest) (domain.RideRequest, error)
	getByID        func(ctx context.Context, id int64) (domain.RideRequest, error)
	listByClient   func(ctx context.Context, clientID int64, p domain.PaginationParams) ([]domain.RideRequest, int64, error)
	listByStatus   func(ctx context.Context, s domain.RideRequestStatus, p domain.PaginationParams) ([]domain.RideRequest, int64, error)
	transition     func(ctx context.Context, id int64, from, to domain.RideRequestStatus, personnelID int64) (domain.RideRequest, error)
	deleteIfStatus func(ctx context.Context, id int64, s domain.RideRequestStatus) error
}

func (m *mockRideRequestRepo) Create(ctx context.Context, rr domain.RideRequest) (domain.RideRequest, error) {
	return m.create(ctx, rr)
}
func (m *mockRideRequestRepo) GetByID(ctx context.Context, id int64) (domain.RideRequest, error) {
	return m.getByID(ctx, id)
}
func (m *mockRideRequestRepo) ListByClientPaged(ctx context.Context, clientID int64, p domain.PaginationParams) ([]domain.RideRequest, int64, error) {
	return m.listByClient(ctx, clientID, p)
}
func (m *mockRideRequestRepo) ListByStatusPaged(ctx context.Context, s domain.RideRequestStatus, p domain.PaginationParams) ([]domain.RideRequest, int64, error) {
	return m.listByStatus(ctx, s, p)
}
func (m *mockRideRequestRepo) Transition(ctx context.Context, id int64, from, to domain.RideRequestStatus, personnelID int64) (domain.RideRequest, error) {
	return m.transition(ctx, id, from, to, personnelID)
}
func (m *mockRideRequestRepo) DeleteIfStatus(ctx context.Context, id int64, s domain.RideRequestStatus) error {
	return m.deleteIfStatus(ctx, id, s)
}

var _ repo.RideRequestRepo = (*mockRideRequestRepo)(nil)

// ---- rides -----------------------------------------------------------------

type mockRideRepo struct {
	create       func(ctx context.Context, r domain.Ride) (domain.Ride, error)
	getByID      func(ctx context.Context, id int64) (domain.RideWithRequest, error)
	updateStatus func(ctx context.Context, id int64, from, to domain.RideStatus) (domain.Ride, error)
	reschedule   func(ctx context.Context, id int64, s domain.RideStatus, pickup time.Time, dropoff *time.Time) (domain.Ride, error)
}

func (m *mockRideRepo) Create(ctx context.Context, r domain.Ride) (domain.Ride, error) {
	return m.create(ctx, r)
}
func (m *mockRideRepo) GetByID(ctx context.Context, id int64) (domain.RideWithRequest, error) {
	return m.getByID(ctx, id)
}
func (m *mockRideRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.RideStatus) (domain.Ride, error) {
	return m.updateStatus(ctx, id, from, to)
}
func (m *mockRideRepo) Reschedule(ctx context.Context, id int64, s domain.RideStatus, pickup time.Time, dropoff *time.Time) (domain.Ride, error) {
	return m.reschedule(ctx, id, s, pickup, dropoff)
}

var _ repo.RideRepo = (*mockRideRepo)(nil)

// ---- documents -------------------------------------------------------------

type mockDocumentRepo struct {
	create          func(ctx context.Context, d domain.DriverDocument) (domain.DriverDocument, error)
	getByID         func(ctx context.Context, id int64) (domain.DriverDocument, error)
	listByPersonnel func(ctx context.Context, personnelID int64, p domain.PaginationParams) ([]domain.DriverDocument, int64, error)
	listAll         func(ctx context.Context, verified *bool, p domain.PaginationParams) ([]domain.DriverDocument, int64, error)
	setVerification func(ctx context.Context, id int64, verified bool, validatorID int64) (domain.DriverDocument, error)
}

func (m *mockDocumentRepo) Create(ctx context.Context, d domain.DriverDocument) (domain.DriverDocument, error) {
	return m.create(ctx, d)
}
func (m *mockDocumentRepo) GetByID(ctx context.Context, id int64) (domain.DriverDocument, error) {
	return m.getByID(ctx, id)
}
func (m *mockDocumentRepo) ListByPersonnelPaged(ctx context.Context, personnelID int64, p domain.PaginationParams) ([]domain.DriverDocument, int64, error) {
	return m.listByPersonnel(ctx, personnelID, p)
}
func (m *mockDocumentRepo) ListAllPaged(ctx context.Context, verified *bool, p domain.PaginationParams) ([]domain.DriverDocument, int64, error) {
	return m.listAll(ctx, verified, p)
}
func (m *mockDocumentRepo) SetVerification(ctx context.Context, id int64, verified bool, validatorID int64) (domain.DriverDocument, error) {
	return m.setVerification(ctx, id, verified, validatorID)
}

var _ repo.DocumentRepo = (*mockDocumentRepo)(nil)

// ---- reservations ----------------------------------------------------------

type mockReservationRepo struct {
	create       func(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	getByID      func(ctx context.Context, id int64) (domain.Reservation, error)
	listByClient func(ctx context.Context, clientID int64, p domain.PaginationParams) ([]domain.Reservation, int64, error)
}

func (m *mockReservationRepo) Create(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	return m.create(ctx, r)
}
func (m *mockReservationRepo) GetByID(ctx context.Context, id int64) (domain.Reservation, error) {
	return m.getByID(ctx, id)
}
func (m *mockReservationRepo) ListByClientPaged(ctx context.Context, clientID int64, p domain.PaginationParams) ([]domain.Reservation, int64, error) {
	return m.listByClient(ctx, clientID, p)
}

var _ repo.ReservationRepo = (*mockReservationRepo)(nil)

// ---- reviews ---------------------------------------------------------------

type mockReviewRepo struct {
	create      func(ctx context.Context, rv domain.Review) (domain.Review, error)
	getByID     func(ctx context.Context, id int64) (domain.Review, error)
	list        func(ctx context.Context, reservationID int64, p domain.PaginationParams) ([]domain.Review, int64, error)
	setResponse func(ctx context.Context, id int64, response string, personnelID int64) (domain.Review, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	return m.create(ctx, rv)
}
func (m *mockReviewRepo) GetByID(ctx context.Context, id int64) (domain.Review, error) {
	return m.getByID(ctx, id)
}
func (m *mockReviewRepo) ListPaged(ctx context.Context, reservationID int64, p domain.PaginationParams) ([]domain.Review, int64, error) {
	return m.list(ctx, reservationID, p)
}
func (m *mockReviewRepo) SetResponse(ctx context.Context, id int64, response string, personnelID int64) (domain.Review, error) {
	return m.setResponse(ctx, id, response, personnelID)
}

var _ repo.ReviewRepo = (*mockReviewRepo)(nil)

// ---- tickets ---------------------------------------------------------------

type mockTicketRepo struct {
	create  func(ctx context.Context, t domain.SupportTicket) (domain.SupportTicket, error)
	getByID func(ctx context.Context, id int64) (domain.SupportTicket, error)
	assign  func(ctx context.Context, id int64, from domain.TicketStatus, prev, personnelID int64) (domain.SupportTicket, error)
	close   func(ctx context.Context, id int64, from domain.TicketStatus) (domain.SupportTicket, error)
	list    func(ctx context.Context, f repo.TicketFilter, p domain.PaginationParams) ([]domain.SupportTicket, int64, error)
}

func (m *mockTicketRepo) Create(ctx context.Context, t domain.SupportTicket) (domain.SupportTicket, error) {
	return m.create(ctx, t)
}
func (m *mockTicketRepo) GetByID(ctx context.Context, id int64) (domain.SupportTicket, error) {
	return m.getByID(ctx, id)
}
func (m *mockTicketRepo) Assign(ctx context.Context, id int64, from domain.TicketStatus, prev, personnelID int64) (domain.SupportTicket, error) {
	return m.assign(ctx, id, from, prev, personnelID)
}
func (m *mockTicketRepo) Close(ctx context.Context, id int64, from domain.TicketStatus) (domain.SupportTicket, error) {
	return m.close(ctx, id, from)
}
func (m *mockTicketRepo) ListPaged(ctx context.Context, f repo.TicketFilter, p domain.PaginationParams) ([]domain.SupportTicket, int64, error) {
	return m.list(ctx, f, p)
}

var _ repo.TicketRepo = (*mockTicketRepo)(nil)

// ---- events ----------------------------------------------------------------

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

var _ events.Publisher = (*recorder)(nil)

// ---- actors ----------------------------------------------------------------

func clientActor(id int64) domain.Actor {
	return domain.Actor{Kind: domain.KindClient, ID: id, Role: domain.RoleClient}
}

func driverActor(id int64) domain.Actor {
	return domain.Actor{Kind: domain.KindPersonnel, ID: id, Role: domain.RoleDriver}
}

func staffActor(id int64, role domain.Role) domain.Actor {
	return domain.Actor{Kind: domain.KindPersonnel, ID: id, Role: role}
}

func adminActor() domain.Actor {
	return domain.Actor{Kind: domain.KindAdmin, ID: 1, Role: domain.RoleAdmin}
}

func ptr[T any](v T) *T { return &v }
