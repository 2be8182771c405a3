package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// TicketRepo defines the persistence operations for SupportTickets.
type TicketRepo interface {
	// Create inserts an OPEN, unassigned ticket.
	Create(ctx context.Context, t domain.SupportTicket) (domain.SupportTicket, error)

	// GetByID returns domain.ErrNotFound if no such ticket exists.
	GetByID(ctx context.Context, id int64) (domain.SupportTicket, error)

	// Assign sets the assignee and moves the ticket to ASSIGNED, provided the
	// status is still `from` and the assignee is still prevAssignee (0 = none).
	Assign(ctx context.Context, id int64, from domain.TicketStatus, prevAssignee, personnelID int64) (domain.SupportTicket, error)

	// Close moves the ticket from `from` to CLOSED.
	Close(ctx context.Context, id int64, from domain.TicketStatus) (domain.SupportTicket, error)

	// ListPaged returns one page of tickets matching f, newest first.
	ListPaged(ctx context.Context, f TicketFilter, p domain.PaginationParams) ([]domain.SupportTicket, int64, error)
}

// TicketFilter narrows a ticket listing. Zero values disable a filter.
type TicketFilter struct {
	ClientID   int64
	AssigneeID int64
	Status     domain.TicketStatus
}

type pgTicketRepo struct {
	db db
}

// NewTicketRepo constructs a TicketRepo backed by the provided db connection.
func NewTicketRepo(db db) TicketRepo {
	return &pgTicketRepo{db: db}
}

const ticketColumns = `id, client_id, assigned_personnel_id, status, type, subject, description, created_at, updated_at`

func (r *pgTicketRepo) Create(ctx context.Context, t domain.SupportTicket) (domain.SupportTicket, error) {
	const q = `
		INSERT INTO support_tickets (client_id, status, type, subject, description)
		VALUES (@client_id, 'OPEN', @type, @subject, @description)
		RETURNING ` + ticketColumns

	args := pgx.NamedArgs{
		"client_id":   t.ClientID,
		"type":        string(t.Type),
		"subject":     t.Subject,
		"description": t.Description,
	}
	out, err := scanTicket(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("repo.TicketRepo.Create: %w", mapWriteErr(err))
	}
	return out, nil
}

func (r *pgTicketRepo) GetByID(ctx context.Context, id int64) (domain.SupportTicket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM support_tickets WHERE id = @id`

	out, err := scanTicket(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("repo.TicketRepo.GetByID: %w", err)
	}
	return out, nil
}

func (r *pgTicketRepo) Assign(ctx context.Context, id int64, from domain.TicketStatus, prevAssignee, personnelID int64) (domain.SupportTicket, error) {
	const q = `
		UPDATE support_tickets
		SET assigned_personnel_id = @personnel_id,
		    status                = 'ASSIGNED',
		    updated_at            = now()
		WHERE id = @id
		  AND status = @from
		  AND assigned_personnel_id IS NOT DISTINCT FROM @prev::bigint
		RETURNING ` + ticketColumns

	var prev *int64
	if prevAssignee != 0 {
		prev = &prevAssignee
	}
	args := pgx.NamedArgs{
		"id":           id,
		"from":         string(from),
		"prev":         prev,
		"personnel_id": personnelID,
	}
	out, err := scanTicket(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("repo.TicketRepo.Assign: %w", mapWriteErr(staleOnNoRows(err)))
	}
	return out, nil
}

func (r *pgTicketRepo) Close(ctx context.Context, id int64, from domain.TicketStatus) (domain.SupportTicket, error) {
	const q = `
		UPDATE support_tickets
		SET status = 'CLOSED', updated_at = now()
		WHERE id = @id AND status = @from
		RETURNING ` + ticketColumns

	out, err := scanTicket(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "from": string(from)}))
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("repo.TicketRepo.Close: %w", staleOnNoRows(err))
	}
	return out, nil
}

func (r *pgTicketRepo) ListPaged(ctx context.Context, f TicketFilter, p domain.PaginationParams) ([]domain.SupportTicket, int64, error) {
	// A NULL parameter disables its filter.
	const (
		where = `
		WHERE (@client_id::bigint IS NULL OR client_id = @client_id::bigint)
		  AND (@assignee_id::bigint IS NULL OR assigned_personnel_id = @assignee_id::bigint)
		  AND (@status::text IS NULL OR status = @status::text)`
		q = `
		SELECT ` + ticketColumns + `
		FROM support_tickets` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`
		qCount = `SELECT COUNT(*) FROM support_tickets` + where
	)

	args := pgx.NamedArgs{
		"client_id":   nullID(f.ClientID),
		"assignee_id": nullID(f.AssigneeID),
		"status":      nullText(string(f.Status)),
		"limit":       p.Limit,
		"offset":      p.Offset(),
	}

	total, err := count(ctx, r.db, qCount, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TicketRepo.ListPaged: %w", err)
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TicketRepo.ListPaged: %w", err)
	}
	out, err := collect(rows, scanTicket)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TicketRepo.ListPaged: %w", err)
	}
	return out, total, nil
}

func nullID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func nullText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanTicket(s scanner) (domain.SupportTicket, error) {
	var (
		t        domain.SupportTicket
		assignee pgtype.Int8
		status   string
		typ      string
	)
	err := s.Scan(&t.ID, &t.ClientID, &assignee, &status, &typ, &t.Subject, &t.Description,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.SupportTicket{}, noRows(err)
	}
	if assignee.Valid {
		v := assignee.Int64
		t.AssignedPersonnelID = &v
	}
	t.Status = domain.TicketStatus(status)
	t.Type = domain.TicketType(typ)
	return t, nil
}
