package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mickael234/projet-psah-sub003/internal/access"
	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/events"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
)

// ReviewService handles client reviews and staff answers.
type ReviewService struct {
	reviews      repo.ReviewRepo
	reservations repo.ReservationRepo
	notify       notifier
}

// NewReviewService constructs a ReviewService.
func NewReviewService(reviews repo.ReviewRepo, reservations repo.ReservationRepo, pub events.Publisher) *ReviewService {
	return &ReviewService{reviews: reviews, reservations: reservations, notify: newNotifier(pub)}
}

// Create reviews a reservation on behalf of its client. A reservation takes
// one review; a second attempt is domain.ErrConflict.
func (s *ReviewService) Create(ctx context.Context, actor domain.Actor, in domain.Review) (domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Create: %w: rating must be between 1 and 5", domain.ErrValidation)
	}
	if in.ReservationID <= 0 {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Create: %w: reservation_id is required", domain.ErrValidation)
	}

	res, err := s.reservations.GetByID(ctx, in.ReservationID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Create: %w", err)
	}
	if err := access.Authorize(actor, access.ReviewCreate, access.Resource{ClientID: res.ClientID}); err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Create: %w", err)
	}

	out, err := s.reviews.Create(ctx, domain.Review{
		ReservationID: res.ID,
		ClientID:      res.ClientID,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Create: %w", err)
	}
	s.notify.emit(ctx, events.ReviewCreated, out.ID, actor, out)
	return out, nil
}

// Respond sets or overwrites the staff answer. The rating is never touched.
func (s *ReviewService) Respond(ctx context.Context, actor domain.Actor, id int64, response string) (domain.Review, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Respond: %w: response_comment is required", domain.ErrValidation)
	}

	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Respond: %w", err)
	}
	if err := access.Authorize(actor, access.ReviewRespond, access.Resource{ClientID: rv.ClientID}); err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Respond: %w", err)
	}

	out, err := s.reviews.SetResponse(ctx, rv.ID, response, actor.ID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Respond: %w", err)
	}
	s.notify.emit(ctx, events.ReviewAnswered, out.ID, actor, nil)
	return out, nil
}

// List returns a page of reviews for staff, optionally for one reservation.
func (s *ReviewService) List(ctx context.Context, actor domain.Actor, reservationID int64, p domain.PaginationParams) (domain.Page[domain.Review], error) {
	if err := access.Authorize(actor, access.ReviewList, access.Resource{}); err != nil {
		return domain.Page[domain.Review]{}, fmt.Errorf("service.ReviewService.List: %w", err)
	}
	items, total, err := s.reviews.ListPaged(ctx, reservationID, p)
	if err != nil {
		return domain.Page[domain.Review]{}, fmt.Errorf("service.ReviewService.List: %w", err)
	}
	return domain.NewPage(items, p, total), nil
}
