// Package transition holds the lifecycle state machines for ride requests,
// rides, driver documents and support tickets.
//
// Every function here is pure: it takes the current state and the requested
// event and returns the next state or domain.ErrInvalidState. Services call it
// before touching the database, then persist with a conditional update scoped
// by the state the decision was based on.
package transition

import (
	"fmt"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// RideRequestEvent is an action that moves a RideRequest between states.
type RideRequestEvent string

const (
	AcceptRideRequest RideRequestEvent = "accept"
	RefuseRideRequest RideRequestEvent = "refuse"
	CancelRideRequest RideRequestEvent = "cancel"
)

// rideRequestEdges lists every legal (from, event) pair and its target.
// Cancel maps to PENDING because cancellation deletes the row; it only checks
// that the request is still untouched.
var rideRequestEdges = map[domain.RideRequestStatus]map[RideRequestEvent]domain.RideRequestStatus{
	domain.RideRequestPending: {
		AcceptRideRequest: domain.RideRequestAccepted,
		RefuseRideRequest: domain.RideRequestRefused,
		CancelRideRequest: domain.RideRequestPending,
	},
}

// RideRequest returns the status a request moves to when ev is applied in from.
func RideRequest(from domain.RideRequestStatus, ev RideRequestEvent) (domain.RideRequestStatus, error) {
	if to, ok := rideRequestEdges[from][ev]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: cannot %s a ride request that is %s", domain.ErrInvalidState, ev, from)
}

// RideEvent is an action that moves a Ride between states.
type RideEvent string

const (
	StartRide    RideEvent = "start"
	CompleteRide RideEvent = "complete"
	CancelRide   RideEvent = "cancel"
)

var rideEdges = map[domain.RideStatus]map[RideEvent]domain.RideStatus{
	domain.RidePending: {
		StartRide:  domain.RideInProgress,
		CancelRide: domain.RideCancelled,
	},
	domain.RideInProgress: {
		CompleteRide: domain.RideCompleted,
		CancelRide:   domain.RideCancelled,
	},
}

// Ride returns the status a ride moves to when ev is applied in from.
func Ride(from domain.RideStatus, ev RideEvent) (domain.RideStatus, error) {
	if to, ok := rideEdges[from][ev]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: cannot %s a ride that is %s", domain.ErrInvalidState, ev, from)
}

// RideEventFor maps a requested target status onto the event that reaches it.
// Callers send the status they want; the machine reasons in events.
func RideEventFor(target domain.RideStatus) (RideEvent, error) {
	switch target {
	case domain.RideInProgress:
		return StartRide, nil
	case domain.RideCompleted:
		return CompleteRide, nil
	case domain.RideCancelled:
		return CancelRide, nil
	}
	return "", fmt.Errorf("%w: a ride cannot be moved to %s", domain.ErrInvalidState, target)
}

// RideTerminal reports whether no further transition is possible from s.
func RideTerminal(s domain.RideStatus) bool {
	return len(rideEdges[s]) == 0
}

// Reschedulable reports whether a ride's pickup/dropoff times may still change.
func Reschedulable(s domain.RideStatus) error {
	if s != domain.RidePending {
		return fmt.Errorf("%w: cannot reschedule a ride that is %s", domain.ErrInvalidState, s)
	}
	return nil
}

// CanCreateRide checks that a ride may be created from a request in status s.
func CanCreateRide(s domain.RideRequestStatus) error {
	if s != domain.RideRequestAccepted {
		return fmt.Errorf("%w: a ride needs an ACCEPTED request, this one is %s", domain.ErrInvalidState, s)
	}
	return nil
}

// ValidateDocument returns the new verified flag. Re-validation is always
// allowed and simply overwrites the previous outcome.
func ValidateDocument(_ domain.DriverDocument, isValid bool) bool {
	return isValid
}

// TicketEvent is an action that moves a SupportTicket between states.
type TicketEvent string

const (
	AssignTicket   TicketEvent = "assign"
	ReassignTicket TicketEvent = "reassign"
	CloseTicket    TicketEvent = "close"
)

var ticketEdges = map[domain.TicketStatus]map[TicketEvent]domain.TicketStatus{
	domain.TicketOpen: {
		AssignTicket: domain.TicketAssigned,
	},
	domain.TicketAssigned: {
		ReassignTicket: domain.TicketAssigned,
		CloseTicket:    domain.TicketClosed,
	},
}

// Ticket returns the status a ticket moves to when ev is applied in from.
func Ticket(from domain.TicketStatus, ev TicketEvent) (domain.TicketStatus, error) {
	if to, ok := ticketEdges[from][ev]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: cannot %s a ticket that is %s", domain.ErrInvalidState, ev, from)
}

// Assignment picks assign or reassign for t and validates the new assignee.
// Reassigning to the current assignee is rejected.
func Assignment(t domain.SupportTicket, personnelID int64) (TicketEvent, domain.TicketStatus, error) {
	ev := AssignTicket
	if t.Status == domain.TicketAssigned {
		ev = ReassignTicket
		if t.Assignee() == personnelID {
			return "", "", fmt.Errorf("%w: ticket is already assigned to personnel %d", domain.ErrInvalidState, personnelID)
		}
	}
	to, err := Ticket(t.Status, ev)
	if err != nil {
		return "", "", err
	}
	return ev, to, nil
}
