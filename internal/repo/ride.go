package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// RideRepo defines the persistence operations for Rides.
type RideRepo interface {
	// Create inserts a ride for an accepted request. A second ride for the same
	// request violates rides_ride_request_id_key and yields domain.ErrConflict.
	Create(ctx context.Context, ride domain.Ride) (domain.Ride, error)

	// GetByID retrieves a ride joined with its underlying request.
	// Returns domain.ErrNotFound if no such ride exists.
	GetByID(ctx context.Context, id int64) (domain.RideWithRequest, error)

	// UpdateStatus moves a ride from `from` to `to` only if it is still in `from`.
	UpdateStatus(ctx context.Context, id int64, from, to domain.RideStatus) (domain.Ride, error)

	// Reschedule overwrites pickup/dropoff times only while the ride is in `status`.
	Reschedule(ctx context.Context, id int64, status domain.RideStatus, pickup time.Time, dropoff *time.Time) (domain.Ride, error)
}

type pgRideRepo struct {
	db db
}

// NewRideRepo constructs a RideRepo backed by the provided db connection.
func NewRideRepo(db db) RideRepo {
	return &pgRideRepo{db: db}
}

const rideColumns = `id, personnel_id, ride_request_id, pickup_time, dropoff_time, status, created_at, updated_at`

func (r *pgRideRepo) Create(ctx context.Context, ride domain.Ride) (domain.Ride, error) {
	const q = `
		INSERT INTO rides (personnel_id, ride_request_id, pickup_time, dropoff_time, status)
		VALUES (@personnel_id, @ride_request_id, @pickup_time, @dropoff_time, 'PENDING')
		RETURNING ` + rideColumns

	args := pgx.NamedArgs{
		"personnel_id":    ride.PersonnelID,
		"ride_request_id": ride.RideRequestID,
		"pickup_time":     ride.PickupTime,
		"dropoff_time":    ride.DropoffTime, // nil becomes NULL
	}
	out, err := scanRide(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.Create: %w", mapWriteErr(err))
	}
	return out, nil
}

func (r *pgRideRepo) GetByID(ctx context.Context, id int64) (domain.RideWithRequest, error) {
	const q = `
		SELECT r.id, r.personnel_id, r.ride_request_id, r.pickup_time, r.dropoff_time,
		       r.status, r.created_at, r.updated_at,
		       rr.id, rr.client_id, rr.personnel_id, rr.pickup_location, rr.dropoff_location,
		       rr.requested_at, rr.status, rr.updated_at
		FROM rides r
		JOIN ride_requests rr ON rr.id = r.ride_request_id
		WHERE r.id = @id`

	var (
		out       domain.RideWithRequest
		dropoff   pgtype.Timestamptz
		status    string
		reqPID    pgtype.Int8
		reqStatus string
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(
		&out.ID, &out.PersonnelID, &out.RideRequestID, &out.PickupTime, &dropoff,
		&status, &out.CreatedAt, &out.UpdatedAt,
		&out.Request.ID, &out.Request.ClientID, &reqPID, &out.Request.PickupLocation,
		&out.Request.DropoffLocation, &out.Request.RequestedAt, &reqStatus, &out.Request.UpdatedAt,
	)
	if err != nil {
		return domain.RideWithRequest{}, fmt.Errorf("repo.RideRepo.GetByID: %w", noRows(err))
	}
	if dropoff.Valid {
		t := dropoff.Time
		out.DropoffTime = &t
	}
	if reqPID.Valid {
		v := reqPID.Int64
		out.Request.PersonnelID = &v
	}
	out.Status = domain.RideStatus(status)
	out.Request.Status = domain.RideRequestStatus(reqStatus)
	return out, nil
}

func (r *pgRideRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.RideStatus) (domain.Ride, error) {
	const q = `
		UPDATE rides
		SET status = @to, updated_at = now()
		WHERE id = @id AND status = @from
		RETURNING ` + rideColumns

	args := pgx.NamedArgs{"id": id, "from": string(from), "to": string(to)}
	out, err := scanRide(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.UpdateStatus: %w", staleOnNoRows(err))
	}
	return out, nil
}

func (r *pgRideRepo) Reschedule(ctx context.Context, id int64, status domain.RideStatus, pickup time.Time, dropoff *time.Time) (domain.Ride, error) {
	const q = `
		UPDATE rides
		SET pickup_time  = @pickup_time,
		    dropoff_time = @dropoff_time,
		    updated_at   = now()
		WHERE id = @id AND status = @status
		RETURNING ` + rideColumns

	args := pgx.NamedArgs{
		"id":           id,
		"status":       string(status),
		"pickup_time":  pickup,
		"dropoff_time": dropoff,
	}
	out, err := scanRide(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Ride{}, fmt.Errorf("repo.RideRepo.Reschedule: %w", staleOnNoRows(err))
	}
	return out, nil
}

func scanRide(s scanner) (domain.Ride, error) {
	var (
		ride    domain.Ride
		dropoff pgtype.Timestamptz
		status  string
	)
	err := s.Scan(&ride.ID, &ride.PersonnelID, &ride.RideRequestID, &ride.PickupTime, &dropoff,
		&status, &ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		return domain.Ride{}, noRows(err)
	}
	if dropoff.Valid {
		t := dropoff.Time
		ride.DropoffTime = &t
	}
	ride.Status = domain.RideStatus(status)
	return ride, nil
}
