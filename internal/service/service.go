// Package service contains the business logic of the API.
//
// Every mutating operation follows the same order: validate the input, load
// the target, ask the access guard, ask the transition validator, then persist
// with an update conditioned on the status the decision was based on. Events
// are published only after the write succeeded.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/events"
)

// notifier publishes post-commit events and logs delivery failures.
type notifier struct {
	pub events.Publisher
	log *slog.Logger
}

func newNotifier(pub events.Publisher) notifier {
	if pub == nil {
		pub = events.Nop{}
	}
	return notifier{pub: pub, log: slog.Default()}
}

func (n notifier) emit(ctx context.Context, t events.Type, entityID int64, actor domain.Actor, data any) {
	if err := n.pub.Publish(ctx, events.New(t, entityID, actor, data)); err != nil {
		n.log.WarnContext(ctx, "event publish failed",
			"event", t,
			"entity_id", entityID,
			"error", err,
		)
	}
}

// subjectClient returns the client an operation acts for. Clients always act
// for themselves; elevated roles must name the client explicitly.
func subjectClient(actor domain.Actor, requested int64) (int64, error) {
	if actor.Kind == domain.KindClient {
		return actor.ID, nil
	}
	if actor.Role.Elevated() && requested > 0 {
		return requested, nil
	}
	return 0, fmt.Errorf("%w: client_id is required", domain.ErrValidation)
}

// subjectPersonnel returns the personnel an operation acts for. Personnel act
// for themselves; elevated roles may name someone else and default to their
// own personnel record.
func subjectPersonnel(actor domain.Actor, requested int64) int64 {
	if actor.Role.Elevated() && requested > 0 {
		return requested
	}
	return actor.ID
}
