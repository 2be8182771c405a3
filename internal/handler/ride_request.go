package handler

import (
	"context"
	"net/http"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

type createRideRequestBody struct {
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	// ClientID is honoured for administrators only.
	ClientID *int64 `json:"client_id,omitempty"`
}

// decisionBody is the optional body of accept and refuse.
type decisionBody struct {
	PersonnelID *int64 `json:"personnel_id,omitempty"`
}

// CreateRideRequest handles POST /ride-requests.
func (s *Server) CreateRideRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body createRideRequestBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.rideRequests.Create(r.Context(), actor, domain.RideRequest{
		ClientID:        deref(body.ClientID),
		PickupLocation:  body.PickupLocation,
		DropoffLocation: body.DropoffLocation,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// ListRideRequests handles GET /ride-requests.
// Clients get their own requests; dispatch-capable personnel get the PENDING queue.
func (s *Server) ListRideRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := pageParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.rideRequests.List(r.Context(), actor, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetRideRequest handles GET /ride-requests/{id}.
func (s *Server) GetRideRequest(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.rideRequests.Get(r.Context(), actor, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CancelRideRequest handles DELETE /ride-requests/{id}.
func (s *Server) CancelRideRequest(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.rideRequests.Cancel(r.Context(), actor, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcceptRideRequest handles POST /ride-requests/{id}/accept.
func (s *Server) AcceptRideRequest(w http.ResponseWriter, r *http.Request) {
	s.decideRideRequest(w, r, s.rideRequests.Accept)
}

// RefuseRideRequest handles POST /ride-requests/{id}/refuse.
func (s *Server) RefuseRideRequest(w http.ResponseWriter, r *http.Request) {
	s.decideRideRequest(w, r, s.rideRequests.Refuse)
}

type decideFunc func(ctx context.Context, actor domain.Actor, id, personnelID int64) (domain.RideRequest, error)

func (s *Server) decideRideRequest(w http.ResponseWriter, r *http.Request, decide decideFunc) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body decisionBody
	if err := decodeOptionalJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := decide(r.Context(), actor, id, deref(body.PersonnelID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// actorAndID resolves the caller and binds the {id} path segment.
func (s *Server) actorAndID(r *http.Request) (domain.Actor, int64, error) {
	actor, err := s.actor(r)
	if err != nil {
		return domain.Actor{}, 0, err
	}
	id, err := pathID(r)
	if err != nil {
		return domain.Actor{}, 0, err
	}
	return actor, id, nil
}
