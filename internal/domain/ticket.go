package domain

import (
	"fmt"
	"time"
)

// TicketStatus is the lifecycle state of a SupportTicket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "OPEN"
	TicketAssigned TicketStatus = "ASSIGNED"
	TicketClosed   TicketStatus = "CLOSED"
)

// ParseTicketStatus validates a ticket status supplied as a filter.
func ParseTicketStatus(s string) (TicketStatus, error) {
	switch t := TicketStatus(s); t {
	case TicketOpen, TicketAssigned, TicketClosed:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown ticket status %q", ErrValidation, s)
}

// TicketType classifies what a ticket is about.
type TicketType string

const (
	TicketReservation TicketType = "RESERVATION"
	TicketRide        TicketType = "RIDE"
	TicketPayment     TicketType = "PAYMENT"
	TicketTechnical   TicketType = "TECHNICAL"
	TicketOther       TicketType = "OTHER"
)

// ParseTicketType validates a ticket type supplied by a caller.
func ParseTicketType(s string) (TicketType, error) {
	switch t := TicketType(s); t {
	case TicketReservation, TicketRide, TicketPayment, TicketTechnical, TicketOther:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown ticket type %q", ErrValidation, s)
}

// SupportTicket is a client's support case, handled by an assigned staff member.
type SupportTicket struct {
	ID                  int64        `json:"id"`
	ClientID            int64        `json:"client_id"`
	AssignedPersonnelID *int64       `json:"assigned_personnel_id,omitempty"`
	Status              TicketStatus `json:"status"`
	Type                TicketType   `json:"type"`
	Subject             string       `json:"subject"`
	Description         string       `json:"description,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Assignee returns the assigned personnel id, or 0 when unassigned.
func (t SupportTicket) Assignee() int64 {
	if t.AssignedPersonnelID == nil {
		return 0
	}
	return *t.AssignedPersonnelID
}
