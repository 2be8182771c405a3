package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// DocumentRepo defines the persistence operations for DriverDocuments.
type DocumentRepo interface {
	// Create inserts an unverified document.
	Create(ctx context.Context, d domain.DriverDocument) (domain.DriverDocument, error)

	// GetByID returns domain.ErrNotFound if no such document exists.
	GetByID(ctx context.Context, id int64) (domain.DriverDocument, error)

	// ListByPersonnelPaged returns one page of a single driver's documents.
	ListByPersonnelPaged(ctx context.Context, personnelID int64, p domain.PaginationParams) ([]domain.DriverDocument, int64, error)

	// ListAllPaged returns one page of every document, optionally filtered by verification state.
	ListAllPaged(ctx context.Context, verified *bool, p domain.PaginationParams) ([]domain.DriverDocument, int64, error)

	// SetVerification records a validation decision. It is unconditional:
	// re-validating overwrites the previous outcome and validator.
	SetVerification(ctx context.Context, id int64, verified bool, validatorID int64) (domain.DriverDocument, error)
}

type pgDocumentRepo struct {
	db db
}

// NewDocumentRepo constructs a DocumentRepo backed by the provided db connection.
func NewDocumentRepo(db db) DocumentRepo {
	return &pgDocumentRepo{db: db}
}

const documentColumns = `id, personnel_id, document_type, url, expiration_date, verified, validated_at, validated_by, created_at`

func (r *pgDocumentRepo) Create(ctx context.Context, d domain.DriverDocument) (domain.DriverDocument, error) {
	const q = `
		INSERT INTO driver_documents (personnel_id, document_type, url, expiration_date)
		VALUES (@personnel_id, @document_type, @url, @expiration_date)
		RETURNING ` + documentColumns

	args := pgx.NamedArgs{
		"personnel_id":    d.PersonnelID,
		"document_type":   string(d.DocumentType),
		"url":             d.URL,
		"expiration_date": d.ExpirationDate,
	}
	out, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("repo.DocumentRepo.Create: %w", mapWriteErr(err))
	}
	return out, nil
}

func (r *pgDocumentRepo) GetByID(ctx context.Context, id int64) (domain.DriverDocument, error) {
	const q = `SELECT ` + documentColumns + ` FROM driver_documents WHERE id = @id`

	out, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("repo.DocumentRepo.GetByID: %w", err)
	}
	return out, nil
}

func (r *pgDocumentRepo) ListByPersonnelPaged(ctx context.Context, personnelID int64, p domain.PaginationParams) ([]domain.DriverDocument, int64, error) {
	const (
		q = `
		SELECT ` + documentColumns + `
		FROM driver_documents
		WHERE personnel_id = @personnel_id
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`
		qCount = `SELECT COUNT(*) FROM driver_documents WHERE personnel_id = @personnel_id`
	)

	args := pgx.NamedArgs{"personnel_id": personnelID, "limit": p.Limit, "offset": p.Offset()}
	return r.listPaged(ctx, "ListByPersonnelPaged", q, qCount, args)
}

func (r *pgDocumentRepo) ListAllPaged(ctx context.Context, verified *bool, p domain.PaginationParams) ([]domain.DriverDocument, int64, error) {
	// A NULL @verified disables the filter.
	const (
		q = `
		SELECT ` + documentColumns + `
		FROM driver_documents
		WHERE (@verified::boolean IS NULL OR verified = @verified::boolean)
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`
		qCount = `
		SELECT COUNT(*) FROM driver_documents
		WHERE (@verified::boolean IS NULL OR verified = @verified::boolean)`
	)

	args := pgx.NamedArgs{"verified": verified, "limit": p.Limit, "offset": p.Offset()}
	return r.listPaged(ctx, "ListAllPaged", q, qCount, args)
}

func (r *pgDocumentRepo) listPaged(ctx context.Context, op, q, qCount string, args pgx.NamedArgs) ([]domain.DriverDocument, int64, error) {
	total, err := count(ctx, r.db, qCount, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DocumentRepo.%s: %w", op, err)
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DocumentRepo.%s: %w", op, err)
	}
	out, err := collect(rows, scanDocument)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DocumentRepo.%s: %w", op, err)
	}
	return out, total, nil
}

func (r *pgDocumentRepo) SetVerification(ctx context.Context, id int64, verified bool, validatorID int64) (domain.DriverDocument, error) {
	const q = `
		UPDATE driver_documents
		SET verified     = @verified,
		    validated_at = now(),
		    validated_by = @validated_by
		WHERE id = @id
		RETURNING ` + documentColumns

	args := pgx.NamedArgs{"id": id, "verified": verified, "validated_by": validatorID}
	out, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("repo.DocumentRepo.SetVerification: %w", mapWriteErr(err))
	}
	return out, nil
}

func scanDocument(s scanner) (domain.DriverDocument, error) {
	var (
		d           domain.DriverDocument
		docType     string
		validatedAt pgtype.Timestamptz
		validatedBy pgtype.Int8
	)
	err := s.Scan(&d.ID, &d.PersonnelID, &docType, &d.URL, &d.ExpirationDate,
		&d.Verified, &validatedAt, &validatedBy, &d.CreatedAt)
	if err != nil {
		return domain.DriverDocument{}, noRows(err)
	}
	d.DocumentType = domain.DocumentType(docType)
	if validatedAt.Valid {
		t := validatedAt.Time
		d.ValidatedAt = &t
	}
	if validatedBy.Valid {
		v := validatedBy.Int64
		d.ValidatedBy = &v
	}
	return d, nil
}
