package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mickael234/projet-psah-sub003/internal/access"
	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/events"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
	"github.com/mickael234/projet-psah-sub003/internal/transition"
)

// Schedule is the client-owned half of a ride.
type Schedule struct {
	PickupTime  time.Time
	DropoffTime *time.Time
}

func (s Schedule) validate() error {
	if s.PickupTime.IsZero() {
		return fmt.Errorf("%w: pickup_time is required", domain.ErrValidation)
	}
	if s.DropoffTime != nil && !s.DropoffTime.After(s.PickupTime) {
		return fmt.Errorf("%w: dropoff_time must be after pickup_time", domain.ErrValidation)
	}
	return nil
}

// RideService implements the ride lifecycle. The status of a ride belongs to
// its driver; its schedule belongs to the client behind the request.
type RideService struct {
	rides    repo.RideRepo
	requests repo.RideRequestRepo
	notify   notifier
}

// NewRideService constructs a RideService.
func NewRideService(rides repo.RideRepo, requests repo.RideRequestRepo, pub events.Publisher) *RideService {
	return &RideService{rides: rides, requests: requests, notify: newNotifier(pub)}
}

// Create turns an ACCEPTED request into a PENDING ride driven by the personnel
// who accepted it. A second ride for the same request is domain.ErrConflict.
func (s *RideService) Create(ctx context.Context, actor domain.Actor, requestID int64, sched Schedule) (domain.Ride, error) {
	if requestID <= 0 {
		return domain.Ride{}, fmt.Errorf("service.RideService.Create: %w: ride_request_id is required", domain.ErrValidation)
	}
	if err := sched.validate(); err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Create: %w", err)
	}

	rr, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Create: %w", err)
	}
	if err := access.Authorize(actor, access.RideCreate, requestResource(rr)); err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Create: %w", err)
	}
	if err := transition.CanCreateRide(rr.Status); err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Create: %w", err)
	}

	ride, err := s.rides.Create(ctx, domain.Ride{
		PersonnelID:   rr.AssignedPersonnel(),
		RideRequestID: rr.ID,
		PickupTime:    sched.PickupTime,
		DropoffTime:   sched.DropoffTime,
	})
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Create: %w", err)
	}
	s.notify.emit(ctx, events.RideCreated, ride.ID, actor, ride)
	return ride, nil
}

// Get returns a ride visible to its client or its driver.
func (s *RideService) Get(ctx context.Context, actor domain.Actor, id int64) (domain.RideWithRequest, error) {
	r, err := s.rides.GetByID(ctx, id)
	if err != nil {
		return domain.RideWithRequest{}, fmt.Errorf("service.RideService.Get: %w", err)
	}
	if err := access.Authorize(actor, access.RideRead, rideResource(r)); err != nil {
		return domain.RideWithRequest{}, fmt.Errorf("service.RideService.Get: %w", err)
	}
	return r, nil
}

// UpdateStatus moves the ride towards target. Only the assigned driver (or an
// administrator) may do this.
func (s *RideService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, target domain.RideStatus) (domain.Ride, error) {
	ev, err := transition.RideEventFor(target)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.UpdateStatus: %w", err)
	}

	r, err := s.rides.GetByID(ctx, id)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.UpdateStatus: %w", err)
	}
	if err := access.Authorize(actor, access.RideUpdateStatus, rideResource(r)); err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.UpdateStatus: %w", err)
	}
	if transition.RideTerminal(r.Status) {
		return domain.Ride{}, fmt.Errorf("service.RideService.UpdateStatus: %w: ride is already %s", domain.ErrInvalidState, r.Status)
	}
	to, err := transition.Ride(r.Status, ev)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.UpdateStatus: %w", err)
	}

	out, err := s.rides.UpdateStatus(ctx, r.ID, r.Status, to)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.UpdateStatus: %w", err)
	}
	s.notify.emit(ctx, events.RideStatusChanged, out.ID, actor, map[string]domain.RideStatus{"from": r.Status, "to": to})
	return out, nil
}

// Reschedule replaces pickup and dropoff times. Only the client behind the
// request (or an administrator) may do this, and only before the ride starts.
func (s *RideService) Reschedule(ctx context.Context, actor domain.Actor, id int64, sched Schedule) (domain.Ride, error) {
	if err := sched.validate(); err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Reschedule: %w", err)
	}

	r, err := s.rides.GetByID(ctx, id)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Reschedule: %w", err)
	}
	if err := access.Authorize(actor, access.RideReschedule, rideResource(r)); err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Reschedule: %w", err)
	}
	if err := transition.Reschedulable(r.Status); err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Reschedule: %w", err)
	}

	out, err := s.rides.Reschedule(ctx, r.ID, r.Status, sched.PickupTime, sched.DropoffTime)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("service.RideService.Reschedule: %w", err)
	}
	s.notify.emit(ctx, events.RideRescheduled, out.ID, actor, out)
	return out, nil
}

// rideResource carries both owners: the client of the underlying request and
// the driver of the ride.
func rideResource(r domain.RideWithRequest) access.Resource {
	return access.Resource{ClientID: r.Request.ClientID, PersonnelID: r.PersonnelID}
}
