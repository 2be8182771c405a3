package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
)

// memStore is an in-memory ride request + ride store with the same
// compare-and-swap semantics as the Postgres repos: every status write is
// conditioned on the expected prior status.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]domain.RideRequest
	rides    map[int64]domain.Ride

	// loadBarrier, when set, is waited on after every request load so that
	// concurrent callers all read before any of them writes.
	loadBarrier *sync.WaitGroup
}

func newMemStore() *memStore {
	return &memStore{requests: map[int64]domain.RideRequest{}, rides: map[int64]domain.Ride{}}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// ---- repo.RideRequestRepo --------------------------------------------------

type memRequests struct{ *memStore }

var _ repo.RideRequestRepo = memRequests{}

func (m memRequests) Create(_ context.Context, rr domain.RideRequest) (domain.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rr.ID = m.id()
	rr.Status = domain.RideRequestPending
	rr.RequestedAt = time.Now()
	rr.UpdatedAt = rr.RequestedAt
	m.requests[rr.ID] = rr
	return rr, nil
}

func (m memRequests) GetByID(_ context.Context, id int64) (domain.RideRequest, error) {
	m.mu.Lock()
	rr, ok := m.requests[id]
	m.mu.Unlock()
	if m.loadBarrier != nil {
		m.loadBarrier.Done()
		m.loadBarrier.Wait()
	}
	if !ok {
		return domain.RideRequest{}, domain.ErrNotFound
	}
	return rr, nil
}

func (m memRequests) ListByClientPaged(context.Context, int64, domain.PaginationParams) ([]domain.RideRequest, int64, error) {
	return nil, 0, nil
}

func (m memRequests) ListByStatusPaged(context.Context, domain.RideRequestStatus, domain.PaginationParams) ([]domain.RideRequest, int64, error) {
	return nil, 0, nil
}

func (m memRequests) Transition(_ context.Context, id int64, from, to domain.RideRequestStatus, personnelID int64) (domain.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rr, ok := m.requests[id]
	if !ok || rr.Status != from {
		return domain.RideRequest{}, fmt.Errorf("%w: row changed concurrently", domain.ErrConflict)
	}
	rr.Status = to
	rr.PersonnelID = &personnelID
	m.requests[id] = rr
	return rr, nil
}

func (m memRequests) DeleteIfStatus(_ context.Context, id int64, s domain.RideRequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rr, ok := m.requests[id]
	if !ok || rr.Status != s {
		return fmt.Errorf("%w: row changed concurrently", domain.ErrConflict)
	}
	delete(m.requests, id)
	return nil
}

// ---- repo.RideRepo ---------------------------------------------------------

type memRides struct{ *memStore }

var _ repo.RideRepo = memRides{}

func (m memRides) Create(_ context.Context, r domain.Ride) (domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rides {
		if existing.RideRequestID == r.RideRequestID {
			return domain.Ride{}, &domain.ConstraintError{Kind: domain.ErrConflict, Constraint: "rides_ride_request_id_key", Message: "a ride already exists for this request"}
		}
	}
	r.ID = m.id()
	r.Status = domain.RidePending
	m.rides[r.ID] = r
	return r, nil
}

func (m memRides) GetByID(_ context.Context, id int64) (domain.RideWithRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return domain.RideWithRequest{}, domain.ErrNotFound
	}
	return domain.RideWithRequest{Ride: r, Request: m.requests[r.RideRequestID]}, nil
}

func (m memRides) UpdateStatus(_ context.Context, id int64, from, to domain.RideStatus) (domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok || r.Status != from {
		return domain.Ride{}, fmt.Errorf("%w: row changed concurrently", domain.ErrConflict)
	}
	r.Status = to
	m.rides[id] = r
	return r, nil
}

func (m memRides) Reschedule(_ context.Context, id int64, s domain.RideStatus, pickup time.Time, dropoff *time.Time) (domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok || r.Status != s {
		return domain.Ride{}, fmt.Errorf("%w: row changed concurrently", domain.ErrConflict)
	}
	r.PickupTime, r.DropoffTime = pickup, dropoff
	m.rides[id] = r
	return r, nil
}
