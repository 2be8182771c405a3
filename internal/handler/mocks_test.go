package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/handler"
	"github.com/mickael234/projet-psah-sub003/internal/service"
)

// Hand-written test doubles for the Servicer interfaces. Set only the method
// fields a test needs; an unset field panics and flags an unexpected call.

type mockAuth struct {
	login         func(ctx context.Context, email, password string) (service.Session, error)
	register      func(ctx context.Context, in service.Registration) (service.Session, error)
	registerStaff func(ctx context.Context, a domain.Actor, in service.StaffRegistration) (service.StaffAccount, error)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (service.Session, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuth) Register(ctx context.Context, in service.Registration) (service.Session, error) {
	return m.register(ctx, in)
}
func (m *mockAuth) RegisterStaff(ctx context.Context, a domain.Actor, in service.StaffRegistration) (service.StaffAccount, error) {
	return m.registerStaff(ctx, a, in)
}

var _ handler.AuthServicer = (*mockAuth)(nil)

type mockRideRequests struct {
	create func(ctx context.Context, a domain.Actor, in domain.RideRequest) (domain.RideRequest, error)
	get    func(ctx context.Context, a domain.Actor, id int64) (domain.RideRequest, error)
	list   func(ctx context.Context, a domain.Actor, p domain.PaginationParams) (domain.Page[domain.RideRequest], error)
	accept func(ctx context.Context, a domain.Actor, id, pid int64) (domain.RideRequest, error)
	refuse func(ctx context.Context, a domain.Actor, id, pid int64) (domain.RideRequest, error)
	cancel func(ctx context.Context, a domain.Actor, id int64) error
}

func (m *mockRideRequests) Create(ctx context.Context, a domain.Actor, in domain.RideRequest) (domain.RideRequest, error) {
	return m.create(ctx, a, in)
}
func (m *mockRideRequests) Get(ctx context.Context, a domain.Actor, id int64) (domain.RideRequest, error) {
	return m.get(ctx, a, id)
}
func (m *mockRideRequests) List(ctx context.Context, a domain.Actor, p domain.PaginationParams) (domain.Page[domain.RideRequest], error) {
	return m.list(ctx, a, p)
}
func (m *mockRideRequests) Accept(ctx context.Context, a domain.Actor, id, pid int64) (domain.RideRequest, error) {
	return m.accept(ctx, a, id, pid)
}
func (m *mockRideRequests) Refuse(ctx context.Context, a domain.Actor, id, pid int64) (domain.RideRequest, error) {
	return m.refuse(ctx, a, id, pid)
}
func (m *mockRideRequests) Cancel(ctx context.Context, a domain.Actor, id int64) error {
	return m.cancel(ctx, a, id)
}

var _ handler.RideRequestServicer = (*mockRideRequests)(nil)

type mockRides struct {
	create       func(ctx context.Context, a domain.Actor, requestID int64, s service.Schedule) (domain.Ride, error)
	get          func(ctx context.Context, a domain.Actor, id int64) (domain.RideWithRequest, error)
	updateStatus func(ctx context.Context, a domain.Actor, id int64, target domain.RideStatus) (domain.Ride, error)
	reschedule   func(ctx context.Context, a domain.Actor, id int64, s service.Schedule) (domain.Ride, error)
}

func (m *mockRides) Create(ctx context.Context, a domain.Actor, requestID int64, s service.Schedule) (domain.Ride, error) {
	return m.create(ctx, a, requestID, s)
}
func (m *mockRides) Get(ctx context.Context, a domain.Actor, id int64) (domain.RideWithRequest, error) {
	return m.get(ctx, a, id)
}
func (m *mockRides) UpdateStatus(ctx context.Context, a domain.Actor, id int64, target domain.RideStatus) (domain.Ride, error) {
	return m.updateStatus(ctx, a, id, target)
}
func (m *mockRides) Reschedule(ctx context.Context, a domain.Actor, id int64, s service.Schedule) (domain.Ride, error) {
	return m.reschedule(ctx, a, id, s)
}

var _ handler.RideServicer = (*mockRides)(nil)

type mockDocuments struct {
	create   func(ctx context.Context, a domain.Actor, d domain.DriverDocument) (domain.DriverDocument, error)
	upload   func(ctx context.Context, a domain.Actor, d domain.DriverDocument, f service.Upload) (domain.DriverDocument, error)
	list     func(ctx context.Context, a domain.Actor, f service.DocumentFilter, p domain.PaginationParams) (domain.Page[domain.DriverDocument], error)
	validate func(ctx context.Context, a domain.Actor, id int64, ok bool) (domain.DriverDocument, error)
}

func (m *mockDocuments) Create(ctx context.Context, a domain.Actor, d domain.DriverDocument) (domain.DriverDocument, error) {
	return m.create(ctx, a, d)
}
func (m *mockDocuments) Upload(ctx context.Context, a domain.Actor, d domain.DriverDocument, f service.Upload) (domain.DriverDocument, error) {
	return m.upload(ctx, a, d, f)
}
func (m *mockDocuments) List(ctx context.Context, a domain.Actor, f service.DocumentFilter, p domain.PaginationParams) (domain.Page[domain.DriverDocument], error) {
	return m.list(ctx, a, f, p)
}
func (m *mockDocuments) Validate(ctx context.Context, a domain.Actor, id int64, ok bool) (domain.DriverDocument, error) {
	return m.validate(ctx, a, id, ok)
}

var _ handler.DocumentServicer = (*mockDocuments)(nil)

type mockReservations struct {
	create        func(ctx context.Context, a domain.Actor, in domain.Reservation) (domain.Reservation, error)
	get           func(ctx context.Context, a domain.Actor, id int64) (domain.Reservation, error)
	listForClient func(ctx context.Context, a domain.Actor, clientID int64, p domain.PaginationParams) (domain.Page[domain.Reservation], error)
}

func (m *mockReservations) Create(ctx context.Context, a domain.Actor, in domain.Reservation) (domain.Reservation, error) {
	return m.create(ctx, a, in)
}
func (m *mockReservations) Get(ctx context.Context, a domain.Actor, id int64) (domain.Reservation, error) {
	return m.get(ctx, a, id)
}
func (m *mockReservations) ListForClient(ctx context.Context, a domain.Actor, clientID int64, p domain.PaginationParams) (domain.Page[domain.Reservation], error) {
	return m.listForClient(ctx, a, clientID, p)
}

var _ handler.ReservationServicer = (*mockReservations)(nil)

type mockReviews struct {
	create  func(ctx context.Context, a domain.Actor, in domain.Review) (domain.Review, error)
	respond func(ctx context.Context, a domain.Actor, id int64, response string) (domain.Review, error)
	list    func(ctx context.Context, a domain.Actor, reservationID int64, p domain.PaginationParams) (domain.Page[domain.Review], error)
}

func (m *mockReviews) Create(ctx context.Context, a domain.Actor, in domain.Review) (domain.Review, error) {
	return m.create(ctx, a, in)
}
func (m *mockReviews) Respond(ctx context.Context, a domain.Actor, id int64, response string) (domain.Review, error) {
	return m.respond(ctx, a, id, response)
}
func (m *mockReviews) List(ctx context.Context, a domain.Actor, reservationID int64, p domain.PaginationParams) (domain.Page[domain.Review], error) {
	return m.list(ctx, a, reservationID, p)
}

var _ handler.ReviewServicer = (*mockReviews)(nil)

type mockTickets struct {
	create func(ctx context.Context, a domain.Actor, in domain.SupportTicket) (domain.SupportTicket, error)
	get    func(ctx context.Context, a domain.Actor, id int64) (domain.SupportTicket, error)
	assign func(ctx context.Context, a domain.Actor, id, pid int64) (domain.SupportTicket, error)
	close  func(ctx context.Context, a domain.Actor, id int64) (domain.SupportTicket, error)
	list   func(ctx context.Context, a domain.Actor, status string, p domain.PaginationParams) (domain.Page[domain.SupportTicket], error)
}

func (m *mockTickets) Create(ctx context.Context, a domain.Actor, in domain.SupportTicket) (domain.SupportTicket, error) {
	return m.create(ctx, a, in)
}
func (m *mockTickets) Get(ctx context.Context, a domain.Actor, id int64) (domain.SupportTicket, error) {
	return m.get(ctx, a, id)
}
func (m *mockTickets) Assign(ctx context.Context, a domain.Actor, id, pid int64) (domain.SupportTicket, error) {
	return m.assign(ctx, a, id, pid)
}
func (m *mockTickets) Close(ctx context.Context, a domain.Actor, id int64) (domain.SupportTicket, error) {
	return m.close(ctx, a, id)
}
func (m *mockTickets) List(ctx context.Context, a domain.Actor, status string, p domain.PaginationParams) (domain.Page[domain.SupportTicket], error) {
	return m.list(ctx, a, status, p)
}

var _ handler.TicketServicer = (*mockTickets)(nil)

// ---- identity --------------------------------------------------------------

// Bearer tokens understood by the test router. The token is the email.
const (
	tokClient  = "client@example.com"
	tokClient2 = "other@example.com"
	tokDriver  = "driver@example.com"
	tokManager = "fleet@example.com"
	tokDesk    = "desk@example.com"
	tokAdmin   = "admin@example.com"
	tokOrphan  = "orphan@example.com"
)

var testActors = map[string]domain.Actor{
	tokClient:  {Kind: domain.KindClient, ID: 10, Email: tokClient, Role: domain.RoleClient},
	tokClient2: {Kind: domain.KindClient, ID: 11, Email: tokClient2, Role: domain.RoleClient},
	tokDriver:  {Kind: domain.KindPersonnel, ID: 20, Email: tokDriver, Role: domain.RoleDriver},
	tokManager: {Kind: domain.KindPersonnel, ID: 50, Email: tokManager, Role: domain.RoleFleetManager},
	tokDesk:    {Kind: domain.KindPersonnel, ID: 40, Email: tokDesk, Role: domain.RoleReceptionist},
	tokAdmin:   {Kind: domain.KindAdmin, ID: 1, Email: tokAdmin, Role: domain.RoleAdmin},
}

type stubVerifier struct{}

func (stubVerifier) Verify(raw string) (domain.Principal, error) {
	if a, ok := testActors[raw]; ok {
		return domain.Principal{Email: a.Email, Role: a.Role}, nil
	}
	if raw == tokOrphan {
		return domain.Principal{Email: raw, Role: domain.RoleDriver}, nil
	}
	return domain.Principal{}, domain.ErrUnauthorized
}

// stubResolver counts lookups so tests can assert the actor is resolved on
// every request.
type stubResolver struct{ calls int }

func (s *stubResolver) Resolve(_ context.Context, p domain.Principal) (domain.Actor, error) {
	s.calls++
	a, ok := testActors[p.Email]
	if !ok {
		return domain.Actor{}, domain.ErrNotFound
	}
	return a, nil
}

var _ handler.ActorResolver = (*stubResolver)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the real router,
// the same way main.go does.
func newHTTPHandler(d handler.Deps) http.Handler {
	if d.Actors == nil {
		d.Actors = &stubResolver{}
	}
	return handler.NewServer(d).Routes(stubVerifier{})
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// do sends a request with an optional bearer token and returns the recorder.
func do(h http.Handler, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), rec.Body.String())
	return env
}
