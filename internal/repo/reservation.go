package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// ReservationRepo defines the persistence operations for Reservations.
type ReservationRepo interface {
	Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error)

	// GetByID returns domain.ErrNotFound if no such reservation exists.
	GetByID(ctx context.Context, id int64) (domain.Reservation, error)

	// ListByClientPaged returns one page of a client's reservations ordered by
	// check-in, and the total number of reservations that client has.
	ListByClientPaged(ctx context.Context, clientID int64, p domain.PaginationParams) ([]domain.Reservation, int64, error)
}

type pgReservationRepo struct {
	db db
}

// NewReservationRepo constructs a ReservationRepo backed by the provided db connection.
func NewReservationRepo(db db) ReservationRepo {
	return &pgReservationRepo{db: db}
}

const reservationColumns = `id, client_id, room_number, check_in, check_out, created_at`

func (r *pgReservationRepo) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	const q = `
		INSERT INTO reservations (client_id, room_number, check_in, check_out)
		VALUES (@client_id, @room_number, @check_in, @check_out)
		RETURNING ` + reservationColumns

	args := pgx.NamedArgs{
		"client_id":   res.ClientID,
		"room_number": res.RoomNumber,
		"check_in":    res.CheckIn,
		"check_out":   res.CheckOut,
	}
	out, err := scanReservation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Create: %w", mapWriteErr(err))
	}
	return out, nil
}

func (r *pgReservationRepo) GetByID(ctx context.Context, id int64) (domain.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = @id`

	out, err := scanReservation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.GetByID: %w", err)
	}
	return out, nil
}

func (r *pgReservationRepo) ListByClientPaged(ctx context.Context, clientID int64, p domain.PaginationParams) ([]domain.Reservation, int64, error) {
	const (
		q = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE client_id = @client_id
		ORDER BY check_in ASC, id ASC
		LIMIT @limit OFFSET @offset`
		qCount = `SELECT COUNT(*) FROM reservations WHERE client_id = @client_id`
	)

	args := pgx.NamedArgs{"client_id": clientID, "limit": p.Limit, "offset": p.Offset()}

	total, err := count(ctx, r.db, qCount, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByClientPaged: %w", err)
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByClientPaged: %w", err)
	}
	out, err := collect(rows, scanReservation)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByClientPaged: %w", err)
	}
	return out, total, nil
}

func scanReservation(s scanner) (domain.Reservation, error) {
	var res domain.Reservation
	err := s.Scan(&res.ID, &res.ClientID, &res.RoomNumber, &res.CheckIn, &res.CheckOut, &res.CreatedAt)
	if err != nil {
		return domain.Reservation{}, noRows(err)
	}
	return res, nil
}
