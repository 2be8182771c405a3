package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mickael234/projet-psah-sub003/internal/access"
	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
)

// ReservationService keeps the room bookings reviews are attached to.
type ReservationService struct {
	repo repo.ReservationRepo
}

// NewReservationService constructs a ReservationService.
func NewReservationService(r repo.ReservationRepo) *ReservationService {
	return &ReservationService{repo: r}
}

// Create books a room for the acting client.
func (s *ReservationService) Create(ctx context.Context, actor domain.Actor, in domain.Reservation) (domain.Reservation, error) {
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	switch {
	case in.RoomNumber == "":
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w: room_number is required", domain.ErrValidation)
	case in.CheckIn.IsZero() || in.CheckOut.IsZero():
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w: check_in and check_out are required", domain.ErrValidation)
	case !in.CheckOut.After(in.CheckIn):
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w: check_out must be after check_in", domain.ErrValidation)
	}
	if err := access.Authorize(actor, access.ReservationCreate, access.Resource{}); err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	clientID, err := subjectClient(actor, in.ClientID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	in.ClientID = clientID

	out, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	return out, nil
}

// Get returns a reservation to its client or to front-desk staff.
func (s *ReservationService) Get(ctx context.Context, actor domain.Actor, id int64) (domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Get: %w", err)
	}
	if err := access.Authorize(actor, access.ReservationRead, access.Resource{ClientID: res.ClientID}); err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Get: %w", err)
	}
	return res, nil
}

// ListForClient returns one page of a client's reservations. Clients always
// get their own; staff must name the client.
func (s *ReservationService) ListForClient(ctx context.Context, actor domain.Actor, clientID int64, p domain.PaginationParams) (domain.Page[domain.Reservation], error) {
	if actor.Kind == domain.KindClient {
		clientID = actor.ID
	}
	if clientID <= 0 {
		return domain.Page[domain.Reservation]{}, fmt.Errorf("service.ReservationService.ListForClient: %w: client_id is required", domain.ErrValidation)
	}
	if err := access.Authorize(actor, access.ReservationRead, access.Resource{ClientID: clientID}); err != nil {
		return domain.Page[domain.Reservation]{}, fmt.Errorf("service.ReservationService.ListForClient: %w", err)
	}

	items, total, err := s.repo.ListByClientPaged(ctx, clientID, p)
	if err != nil {
		return domain.Page[domain.Reservation]{}, fmt.Errorf("service.ReservationService.ListForClient: %w", err)
	}
	return domain.NewPage(items, p, total), nil
}
