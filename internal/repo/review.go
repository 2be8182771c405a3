package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// ReviewRepo defines the persistence operations for Reviews.
type ReviewRepo interface {
	// Create inserts a review. A second review for the same reservation
	// violates reviews_reservation_id_key and yields domain.ErrConflict.
	Create(ctx context.Context, rv domain.Review) (domain.Review, error)

	// GetByID returns domain.ErrNotFound if no such review exists.
	GetByID(ctx context.Context, id int64) (domain.Review, error)

	// ListPaged returns one page of reviews, newest first. A non-zero
	// reservationID restricts the page to that reservation.
	ListPaged(ctx context.Context, reservationID int64, p domain.PaginationParams) ([]domain.Review, int64, error)

	// SetResponse stores or overwrites the staff response. Rating and comment
	// are never written by this statement.
	SetResponse(ctx context.Context, id int64, response string, personnelID int64) (domain.Review, error)
}

type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

const reviewColumns = `id, reservation_id, client_id, rating, comment, created_at, response_comment, responded_at, responded_by`

func (r *pgReviewRepo) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	const q = `
		INSERT INTO reviews (reservation_id, client_id, rating, comment)
		VALUES (@reservation_id, @client_id, @rating, @comment)
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{
		"reservation_id": rv.ReservationID,
		"client_id":      rv.ClientID,
		"rating":         rv.Rating,
		"comment":        rv.Comment,
	}
	out, err := scanReview(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Create: %w", mapWriteErr(err))
	}
	return out, nil
}

func (r *pgReviewRepo) GetByID(ctx context.Context, id int64) (domain.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = @id`

	out, err := scanReview(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.GetByID: %w", err)
	}
	return out, nil
}

func (r *pgReviewRepo) ListPaged(ctx context.Context, reservationID int64, p domain.PaginationParams) ([]domain.Review, int64, error) {
	const (
		q = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE (@reservation_id = 0 OR reservation_id = @reservation_id)
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`
		qCount = `
		SELECT COUNT(*) FROM reviews
		WHERE (@reservation_id = 0 OR reservation_id = @reservation_id)`
	)

	args := pgx.NamedArgs{"reservation_id": reservationID, "limit": p.Limit, "offset": p.Offset()}

	total, err := count(ctx, r.db, qCount, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReviewRepo.ListPaged: %w", err)
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReviewRepo.ListPaged: %w", err)
	}
	out, err := collect(rows, scanReview)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReviewRepo.ListPaged: %w", err)
	}
	return out, total, nil
}

func (r *pgReviewRepo) SetResponse(ctx context.Context, id int64, response string, personnelID int64) (domain.Review, error) {
	const q = `
		UPDATE reviews
		SET response_comment = @response,
		    responded_at     = now(),
		    responded_by     = @responded_by
		WHERE id = @id
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{"id": id, "response": response, "responded_by": personnelID}
	out, err := scanReview(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.SetResponse: %w", mapWriteErr(err))
	}
	return out, nil
}

func scanReview(s scanner) (domain.Review, error) {
	var (
		rv          domain.Review
		response    pgtype.Text
		respondedAt pgtype.Timestamptz
		respondedBy pgtype.Int8
	)
	err := s.Scan(&rv.ID, &rv.ReservationID, &rv.ClientID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
		&response, &respondedAt, &respondedBy)
	if err != nil {
		return domain.Review{}, noRows(err)
	}
	if response.Valid {
		v := response.String
		rv.ResponseComment = &v
	}
	if respondedAt.Valid {
		t := respondedAt.Time
		rv.RespondedAt = &t
	}
	if respondedBy.Valid {
		v := respondedBy.Int64
		rv.RespondedBy = &v
	}
	return rv, nil
}
