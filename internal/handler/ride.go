package handler

import (
	"net/http"
	"time"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/service"
)

type createRideBody struct {
	RideRequestID int64      `json:"ride_request_id"`
	PickupTime    time.Time  `json:"pickup_time"`
	DropoffTime   *time.Time `json:"dropoff_time,omitempty"`
}

type rideStatusBody struct {
	Status string `json:"status"`
}

type scheduleBody struct {
	PickupTime  time.Time  `json:"pickup_time"`
	DropoffTime *time.Time `json:"dropoff_time,omitempty"`
}

// CreateRide handles POST /rides.
func (s *Server) CreateRide(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body createRideBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.rides.Create(r.Context(), actor, body.RideRequestID, service.Schedule{
		PickupTime:  body.PickupTime,
		DropoffTime: body.DropoffTime,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// GetRide handles GET /rides/{id}. The response embeds the underlying request.
func (s *Server) GetRide(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.rides.Get(r.Context(), actor, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateRideStatus handles PATCH /rides/{id}/status.
func (s *Server) UpdateRideStatus(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body rideStatusBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := domain.ParseRideStatus(body.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.rides.UpdateStatus(r.Context(), actor, id, target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// RescheduleRide handles PATCH /rides/{id}/schedule.
func (s *Server) RescheduleRide(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body scheduleBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.rides.Reschedule(r.Context(), actor, id, service.Schedule{
		PickupTime:  body.PickupTime,
		DropoffTime: body.DropoffTime,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
