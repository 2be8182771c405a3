package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// RideRequestRepo defines the persistence operations for RideRequests.
type RideRequestRepo interface {
	// Create inserts a new request in PENDING status.
	Create(ctx context.Context, rr domain.RideRequest) (domain.RideRequest, error)

	// GetByID retrieves a request by primary key.
	// Returns domain.ErrNotFound if no such request exists.
	GetByID(ctx context.Context, id int64) (domain.RideRequest, error)

	// ListByClientPaged returns one page of a client's requests, newest first,
	// and the total number of requests that client has.
	ListByClientPaged(ctx context.Context, clientID int64, p domain.PaginationParams) ([]domain.RideRequest, int64, error)

	// ListByStatusPaged returns one page of requests in the given status, oldest first.
	ListByStatusPaged(ctx context.Context, status domain.RideRequestStatus, p domain.PaginationParams) ([]domain.RideRequest, int64, error)

	// Transition moves a request from `from` to `to` and records personnelID as
	// the deciding personnel, only if the request is still in `from`.
	// Returns domain.ErrConflict when another writer got there first.
	Transition(ctx context.Context, id int64, from, to domain.RideRequestStatus, personnelID int64) (domain.RideRequest, error)

	// DeleteIfStatus removes a request only while it is in the given status.
	// Returns domain.ErrConflict when the request has moved on.
	DeleteIfStatus(ctx context.Context, id int64, status domain.RideRequestStatus) error
}

type pgRideRequestRepo struct {
	db db
}

// NewRideRequestRepo constructs a RideRequestRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRideRequestRepo(db db) RideRequestRepo {
	return &pgRideRequestRepo{db: db}
}

const rideRequestColumns = `id, client_id, personnel_id, pickup_location, dropoff_location, requested_at, status, updated_at`

func (r *pgRideRequestRepo) Create(ctx context.Context, rr domain.RideRequest) (domain.RideRequest, error) {
	const q = `
		INSERT INTO ride_requests (client_id, pickup_location, dropoff_location, status)
		VALUES (@client_id, @pickup, @dropoff, 'PENDING')
		RETURNING ` + rideRequestColumns

	args := pgx.NamedArgs{
		"client_id": rr.ClientID,
		"pickup":    rr.PickupLocation,
		"dropoff":   rr.DropoffLocation,
	}
	out, err := scanRideRequest(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("repo.RideRequestRepo.Create: %w", mapWriteErr(err))
	}
	return out, nil
}

func (r *pgRideRequestRepo) GetByID(ctx context.Context, id int64) (domain.RideRequest, error) {
	const q = `SELECT ` + rideRequestColumns + ` FROM ride_requests WHERE id = @id`

	out, err := scanRideRequest(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("repo.RideRequestRepo.GetByID: %w", err)
	}
	return out, nil
}

func (r *pgRideRequestRepo) ListByClientPaged(ctx context.Context, clientID int64, p domain.PaginationParams) ([]domain.RideRequest, int64, error) {
	const (
		q = `
		SELECT ` + rideRequestColumns + `
		FROM ride_requests
		WHERE client_id = @client_id
		ORDER BY requested_at DESC, id DESC
		LIMIT @limit OFFSET @offset`
		qCount = `SELECT COUNT(*) FROM ride_requests WHERE client_id = @client_id`
	)

	args := pgx.NamedArgs{"client_id": clientID, "limit": p.Limit, "offset": p.Offset()}
	return r.listPaged(ctx, "ListByClientPaged", q, qCount, args)
}

func (r *pgRideRequestRepo) ListByStatusPaged(ctx context.Context, status domain.RideRequestStatus, p domain.PaginationParams) ([]domain.RideRequest, int64, error) {
	const (
		q = `
		SELECT ` + rideRequestColumns + `
		FROM ride_requests
		WHERE status = @status
		ORDER BY requested_at ASC, id ASC
		LIMIT @limit OFFSET @offset`
		qCount = `SELECT COUNT(*) FROM ride_requests WHERE status = @status`
	)

	args := pgx.NamedArgs{"status": string(status), "limit": p.Limit, "offset": p.Offset()}
	return r.listPaged(ctx, "ListByStatusPaged", q, qCount, args)
}

func (r *pgRideRequestRepo) listPaged(ctx context.Context, op, q, qCount string, args pgx.NamedArgs) ([]domain.RideRequest, int64, error) {
	total, err := count(ctx, r.db, qCount, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RideRequestRepo.%s: %w", op, err)
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RideRequestRepo.%s: %w", op, err)
	}
	out, err := collect(rows, scanRideRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RideRequestRepo.%s: %w", op, err)
	}
	return out, total, nil
}

func (r *pgRideRequestRepo) Transition(ctx context.Context, id int64, from, to domain.RideRequestStatus, personnelID int64) (domain.RideRequest, error) {
	const q = `
		UPDATE ride_requests
		SET status       = @to,
		    personnel_id = @personnel_id,
		    updated_at   = now()
		WHERE id = @id AND status = @from
		RETURNING ` + rideRequestColumns

	args := pgx.NamedArgs{
		"id":           id,
		"from":         string(from),
		"to":           string(to),
		"personnel_id": personnelID,
	}
	out, err := scanRideRequest(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("repo.RideRequestRepo.Transition: %w", mapWriteErr(staleOnNoRows(err)))
	}
	return out, nil
}

func (r *pgRideRequestRepo) DeleteIfStatus(ctx context.Context, id int64, status domain.RideRequestStatus) error {
	const q = `DELETE FROM ride_requests WHERE id = @id AND status = @status`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	if err != nil {
		return fmt.Errorf("repo.RideRequestRepo.DeleteIfStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RideRequestRepo.DeleteIfStatus: %w: row changed concurrently", domain.ErrConflict)
	}
	return nil
}

// scanRideRequest maps a single database row into a domain.RideRequest,
// handling the nullable personnel_id.
func scanRideRequest(s scanner) (domain.RideRequest, error) {
	var (
		rr     domain.RideRequest
		pid    pgtype.Int8
		status string
	)
	err := s.Scan(&rr.ID, &rr.ClientID, &pid, &rr.PickupLocation, &rr.DropoffLocation,
		&rr.RequestedAt, &status, &rr.UpdatedAt)
	if err != nil {
		return domain.RideRequest{}, noRows(err)
	}
	if pid.Valid {
		v := pid.Int64
		rr.PersonnelID = &v
	}
	rr.Status = domain.RideRequestStatus(status)
	return rr, nil
}
