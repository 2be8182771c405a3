package handler

import (
	"net/http"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

type createReviewBody struct {
	ReservationID int64  `json:"reservation_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// responseBody deliberately has no rating field: with unknown fields
// rejected, an attempt to change the rating through a response is a 400.
type responseBody struct {
	ResponseComment string `json:"response_comment"`
}

// CreateReview handles POST /reviews.
func (s *Server) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body createReviewBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.reviews.Create(r.Context(), actor, domain.Review{
		ReservationID: body.ReservationID,
		Rating:        body.Rating,
		Comment:       body.Comment,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// ListReviews handles GET /reviews, optionally narrowed by ?reservation_id=.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var reservationID *int64
	if err := queryParam(r, "reservation_id", &reservationID); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := pageParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.reviews.List(r.Context(), actor, deref(reservationID), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// RespondReview handles PATCH /reviews/{id}/response.
func (s *Server) RespondReview(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body responseBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.reviews.Respond(r.Context(), actor, id, body.ResponseComment)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
