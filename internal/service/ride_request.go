package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mickael234/projet-psah-sub003/internal/access"
	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/events"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
	"github.com/mickael234/projet-psah-sub003/internal/transition"
)

// RideRequestService implements the ride request lifecycle.
type RideRequestService struct {
	repo   repo.RideRequestRepo
	notify notifier
}

// NewRideRequestService constructs a RideRequestService. A nil publisher
// disables events.
func NewRideRequestService(r repo.RideRequestRepo, pub events.Publisher) *RideRequestService {
	return &RideRequestService{repo: r, notify: newNotifier(pub)}
}

// Create opens a PENDING request for the acting client.
func (s *RideRequestService) Create(ctx context.Context, actor domain.Actor, in domain.RideRequest) (domain.RideRequest, error) {
	in.PickupLocation = strings.TrimSpace(in.PickupLocation)
	in.DropoffLocation = strings.TrimSpace(in.DropoffLocation)
	if in.PickupLocation == "" || in.DropoffLocation == "" {
		return domain.RideRequest{}, fmt.Errorf("service.RideRequestService.Create: %w: pickup_location and dropoff_location are required", domain.ErrValidation)
	}
	if err := access.Authorize(actor, access.RideRequestCreate, access.Resource{}); err != nil {
		return domain.RideRequest{}, fmt.Errorf("service.RideRequestService.Create: %w", err)
	}
	clientID, err := subjectClient(actor, in.ClientID)
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("service.RideRequestService.Create: %w", err)
	}
	in.ClientID = clientID

	out, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("service.RideRequestService.Create: %w", err)
	}
	return out, nil
}

// Get returns a request visible to actor.
func (s *RideRequestService) Get(ctx context.Context, actor domain.Actor, id int64) (domain.RideRequest, error) {
	rr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("service.RideRequestService.Get: %w", err)
	}
	if err := access.Authorize(actor, access.RideRequestRead, requestResource(rr)); err != nil {
		return domain.RideRequest{}, fmt.Errorf("service.RideRequestService.Get: %w", err)
	}
	return rr, nil
}

// List returns a client's own requests, or the PENDING queue for
// dispatch-capable personnel.
func (s *RideRequestService) List(ctx context.Context, actor domain.Actor, p domain.PaginationParams) (domain.Page[domain.RideRequest], error) {
	var (
		items []domain.RideRequest
		total int64
		err   error
	)
	switch {
	case actor.Kind == domain.KindClient:
		items, total, err = s.repo.ListByClientPaged(ctx, actor.ID, p)
	case access.Can(actor.Role, access.RideRequestListPending):
		items, total, err = s.repo.ListByStatusPaged(ctx, domain.RideRequestPending, p)
	default:
		err = access.Authorize(actor, access.RideRequestListPending, access.Resource{})
	}
	if err != nil {
		return domain.Page[domain.RideRequest]{}, fmt.Errorf("service.RideRequestService.List: %w", err)
	}
	return domain.NewPage(items, p, total), nil
}

// Accept assigns the request to the deciding personnel. Of two racing
// accepts exactly one wins; the other gets domain.ErrConflict.
func (s *RideRequestService) Accept(ctx context.Context, actor domain.Actor, id, personnelID int64) (domain.RideRequest, error) {
	out, err := s.decide(ctx, actor, id, personnelID, transition.AcceptRideRequest, access.RideRequestAccept)
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("service.RideRequestService.Accept: %w", err)
	}
	s.notify.emit(ctx, events.RideRequestAccepted, out.ID, actor, out)
	return out, nil
}

// Refuse closes the request without a ride.
func (s *RideRequestService) Refuse(ctx context.Context, actor domain.Actor, id, personnelID int64) (domain.RideRequest, error) {
	out, err := s.decide(ctx, actor, id, personnelID, transition.RefuseRideRequest, access.RideRequestRefuse)
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("service.RideRequestService.Refuse: %w", err)
	}
	s.notify.emit(ctx, events.RideRequestRefused, out.ID, actor, out)
	return out, nil
}

func (s *RideRequestService) decide(ctx context.Context, actor domain.Actor, id, personnelID int64, ev transition.RideRequestEvent, action access.Action) (domain.RideRequest, error) {
	rr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.RideRequest{}, err
	}
	if err := access.Authorize(actor, action, requestResource(rr)); err != nil {
		return domain.RideRequest{}, err
	}
	to, err := transition.RideRequest(rr.Status, ev)
	if err != nil {
		return domain.RideRequest{}, err
	}
	return s.repo.Transition(ctx, rr.ID, rr.Status, to, subjectPersonnel(actor, personnelID))
}

// Cancel deletes a request its client no longer wants. Only untouched
// (PENDING) requests can be cancelled.
func (s *RideRequestService) Cancel(ctx context.Context, actor domain.Actor, id int64) error {
	rr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.RideRequestService.Cancel: %w", err)
	}
	if err := access.Authorize(actor, access.RideRequestCancel, requestResource(rr)); err != nil {
		return fmt.Errorf("service.RideRequestService.Cancel: %w", err)
	}
	if _, err := transition.RideRequest(rr.Status, transition.CancelRideRequest); err != nil {
		return fmt.Errorf("service.RideRequestService.Cancel: %w", err)
	}
	if err := s.repo.DeleteIfStatus(ctx, rr.ID, rr.Status); err != nil {
		return fmt.Errorf("service.RideRequestService.Cancel: %w", err)
	}
	s.notify.emit(ctx, events.RideRequestCancelled, rr.ID, actor, nil)
	return nil
}

func requestResource(rr domain.RideRequest) access.Resource {
	return access.Resource{ClientID: rr.ClientID, PersonnelID: rr.AssignedPersonnel()}
}
