package handler

import (
	"net/http"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

type createTicketBody struct {
	Type        string `json:"type"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	// ClientID is honoured for administrators only.
	ClientID *int64 `json:"client_id,omitempty"`
}

type assignmentBody struct {
	PersonnelID int64 `json:"personnel_id"`
}

// CreateTicket handles POST /tickets.
func (s *Server) CreateTicket(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body createTicketBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.tickets.Create(r.Context(), actor, domain.SupportTicket{
		ClientID:    deref(body.ClientID),
		Type:        domain.TicketType(body.Type),
		Subject:     body.Subject,
		Description: body.Description,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// GetTicket handles GET /tickets/{id}.
func (s *Server) GetTicket(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.tickets.Get(r.Context(), actor, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListTickets handles GET /tickets. Optional filter: ?status=.
func (s *Server) ListTickets(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var status *string
	if err := queryParam(r, "status", &status); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := pageParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.tickets.List(r.Context(), actor, deref(status), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// AssignTicket handles PATCH /tickets/{id}/assignment.
func (s *Server) AssignTicket(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body assignmentBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.tickets.Assign(r.Context(), actor, id, body.PersonnelID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CloseTicket handles POST /tickets/{id}/close.
func (s *Server) CloseTicket(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.tickets.Close(r.Context(), actor, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
