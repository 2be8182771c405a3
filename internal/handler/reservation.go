package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

type createReservationBody struct {
	RoomNumber string             `json:"room_number"`
	CheckIn    openapi_types.Date `json:"check_in"`
	CheckOut   openapi_types.Date `json:"check_out"`
	// ClientID is honoured for administrators only.
	ClientID *int64 `json:"client_id,omitempty"`
}

// CreateReservation handles POST /reservations.
func (s *Server) CreateReservation(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body createReservationBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.reservations.Create(r.Context(), actor, domain.Reservation{
		ClientID:   deref(body.ClientID),
		RoomNumber: body.RoomNumber,
		CheckIn:    body.CheckIn.Time,
		CheckOut:   body.CheckOut.Time,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// GetReservation handles GET /reservations/{id}.
func (s *Server) GetReservation(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.reservations.Get(r.Context(), actor, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListReservations handles GET /reservations. Clients get their own; staff
// pass ?client_id=. Paged with ?page= and ?limit=.
func (s *Server) ListReservations(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var clientID *int64
	if err := queryParam(r, "client_id", &clientID); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := pageParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.reservations.ListForClient(r.Context(), actor, deref(clientID), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
