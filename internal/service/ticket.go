package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mickael234/projet-psah-sub003/internal/access"
	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/events"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
	"github.com/mickael234/projet-psah-sub003/internal/transition"
)

// TicketService handles support tickets from creation to closure.
type TicketService struct {
	repo   repo.TicketRepo
	notify notifier
}

// NewTicketService constructs a TicketService.
func NewTicketService(r repo.TicketRepo, pub events.Publisher) *TicketService {
	return &TicketService{repo: r, notify: newNotifier(pub)}
}

// Create opens a ticket for the acting client.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, in domain.SupportTicket) (domain.SupportTicket, error) {
	t, err := domain.ParseTicketType(string(in.Type))
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Create: %w", err)
	}
	in.Type = t
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Create: %w: subject is required", domain.ErrValidation)
	}
	if err := access.Authorize(actor, access.TicketCreate, access.Resource{}); err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Create: %w", err)
	}
	if in.ClientID, err = subjectClient(actor, in.ClientID); err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Create: %w", err)
	}

	out, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Create: %w", err)
	}
	s.notify.emit(ctx, events.TicketCreated, out.ID, actor, out)
	return out, nil
}

// Get returns a ticket to its client, its assignee, or front-desk staff.
func (s *TicketService) Get(ctx context.Context, actor domain.Actor, id int64) (domain.SupportTicket, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Get: %w", err)
	}
	if err := access.Authorize(actor, access.TicketRead, ticketResource(t)); err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Get: %w", err)
	}
	return t, nil
}

// Assign hands the ticket to personnelID, or reassigns it to someone else.
func (s *TicketService) Assign(ctx context.Context, actor domain.Actor, id, personnelID int64) (domain.SupportTicket, error) {
	if personnelID <= 0 {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Assign: %w: personnel_id is required", domain.ErrValidation)
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Assign: %w", err)
	}
	if err := access.Authorize(actor, access.TicketAssign, ticketResource(t)); err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Assign: %w", err)
	}
	ev, _, err := transition.Assignment(t, personnelID)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Assign: %w", err)
	}

	out, err := s.repo.Assign(ctx, t.ID, t.Status, t.Assignee(), personnelID)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Assign: %w", err)
	}
	s.notify.emit(ctx, events.TicketAssigned, out.ID, actor, map[string]any{"event": ev, "personnel_id": personnelID})
	return out, nil
}

// Close ends an ASSIGNED ticket. CLOSED is terminal.
func (s *TicketService) Close(ctx context.Context, actor domain.Actor, id int64) (domain.SupportTicket, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Close: %w", err)
	}
	if err := access.Authorize(actor, access.TicketClose, ticketResource(t)); err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Close: %w", err)
	}
	if _, err := transition.Ticket(t.Status, transition.CloseTicket); err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Close: %w", err)
	}

	out, err := s.repo.Close(ctx, t.ID, t.Status)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("service.TicketService.Close: %w", err)
	}
	s.notify.emit(ctx, events.TicketClosed, out.ID, actor, nil)
	return out, nil
}

// List returns one page of tickets, scoped by the actor's role: clients see
// their own, front-desk staff see every ticket, and other personnel see the
// tickets assigned to them. status, when set, narrows the page.
func (s *TicketService) List(ctx context.Context, actor domain.Actor, status string, p domain.PaginationParams) (domain.Page[domain.SupportTicket], error) {
	var f repo.TicketFilter
	if status != "" {
		st, err := domain.ParseTicketStatus(status)
		if err != nil {
			return domain.Page[domain.SupportTicket]{}, fmt.Errorf("service.TicketService.List: %w", err)
		}
		f.Status = st
	}

	switch {
	case access.Can(actor.Role, access.TicketListAny):
	case access.Can(actor.Role, access.TicketListOwn) && actor.Kind == domain.KindClient:
		f.ClientID = actor.ID
	case access.Can(actor.Role, access.TicketListAssigned) && actor.Kind == domain.KindPersonnel:
		f.AssigneeID = actor.ID
	default:
		err := access.Authorize(actor, access.TicketListAny, access.Resource{})
		return domain.Page[domain.SupportTicket]{}, fmt.Errorf("service.TicketService.List: %w", err)
	}

	items, total, err := s.repo.ListPaged(ctx, f, p)
	if err != nil {
		return domain.Page[domain.SupportTicket]{}, fmt.Errorf("service.TicketService.List: %w", err)
	}
	return domain.NewPage(items, p, total), nil
}

func ticketResource(t domain.SupportTicket) access.Resource {
	return access.Resource{ClientID: t.ClientID, PersonnelID: t.Assignee()}
}
