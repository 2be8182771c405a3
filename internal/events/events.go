// Package events publishes domain events after a state change has been
// committed. Delivery is best effort: callers log a failed publish and keep
// the committed result.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// Type names an event; it doubles as the AMQP routing key and the suffix of
// the Redis channel.
type Type string

const (
	RideRequestAccepted  Type = "ride_request.accepted"
	RideRequestRefused   Type = "ride_request.refused"
	RideRequestCancelled Type = "ride_request.cancelled"

	RideCreated       Type = "ride.created"
	RideStatusChanged Type = "ride.status_changed"
	RideRescheduled   Type = "ride.rescheduled"

	DocumentValidated Type = "document.validated"

	ReviewCreated  Type = "review.created"
	ReviewAnswered Type = "review.answered"

	TicketCreated  Type = "ticket.created"
	TicketAssigned Type = "ticket.assigned"
	TicketClosed   Type = "ticket.closed"
)

// Event is the envelope every backend serializes as JSON.
type Event struct {
	Type       Type             `json:"type"`
	EntityID   int64            `json:"entity_id"`
	ActorKind  domain.ActorKind `json:"actor_kind"`
	ActorID    int64            `json:"actor_id"`
	Data       any              `json:"data,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// New stamps an event with the acting identity and the current time.
func New(t Type, entityID int64, actor domain.Actor, data any) Event {
	return Event{
		Type:       t,
		EntityID:   entityID,
		ActorKind:  actor.Kind,
		ActorID:    actor.ID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event. It is the default when no backend is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

func encode(e Event) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return b, nil
}
