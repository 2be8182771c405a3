// Package repo contains all database access logic for the API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
//
// Every status change is written with a predicate on the status the caller
// based its decision on. When that predicate no longer holds the update
// matches zero rows and the repo returns domain.ErrConflict.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
//
// Begin on a pgx.Tx opens a savepoint, so multi-statement writes nest inside
// the test transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scanX
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Postgres SQLSTATE codes the repo translates.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// constraintMessages holds the caller-facing text for each named constraint.
// Constraint names themselves never leave the repo except in logs.
var constraintMessages = map[string]string{
	"accounts_email_key":         "an account with this email already exists",
	"clients_account_id_key":     "the account already has a client profile",
	"personnel_account_id_key":   "the account already has a personnel profile",
	"rides_ride_request_id_key":  "a ride already exists for this request",
	"reviews_reservation_id_key": "a review already exists for this reservation",

	"ride_requests_client_id_fkey":               "client does not exist",
	"ride_requests_personnel_id_fkey":            "personnel does not exist",
	"rides_personnel_id_fkey":                    "personnel does not exist",
	"rides_ride_request_id_fkey":                 "ride request does not exist",
	"driver_documents_personnel_id_fkey":         "personnel does not exist",
	"driver_documents_validated_by_fkey":         "personnel does not exist",
	"reservations_client_id_fkey":                "client does not exist",
	"reviews_reservation_id_fkey":                "reservation does not exist",
	"reviews_client_id_fkey":                     "client does not exist",
	"reviews_responded_by_fkey":                  "personnel does not exist",
	"support_tickets_client_id_fkey":             "client does not exist",
	"support_tickets_assigned_personnel_id_fkey": "personnel does not exist",
}

// mapWriteErr translates driver errors raised by INSERT/UPDATE statements:
// a unique violation becomes domain.ErrConflict and a dangling reference
// becomes domain.ErrNotFound, both as a *domain.ConstraintError.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	var kind error
	fallback := ""
	switch pgErr.Code {
	case uniqueViolation:
		kind, fallback = domain.ErrConflict, "resource already exists"
	case foreignKeyViolation:
		kind, fallback = domain.ErrNotFound, "referenced resource does not exist"
	default:
		return err
	}
	msg, ok := constraintMessages[pgErr.ConstraintName]
	if !ok {
		msg = fallback
	}
	return &domain.ConstraintError{Kind: kind, Constraint: pgErr.ConstraintName, Message: msg}
}

// staleOnNoRows is used for conditional updates: a missing row means the
// expected prior status no longer holds.
func staleOnNoRows(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: row changed concurrently", domain.ErrConflict)
	}
	return err
}

// collect drains rows through scan into a non-nil slice.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// count runs a SELECT COUNT(*) query and returns the result.
func count(ctx context.Context, d db, q string, args pgx.NamedArgs) (int64, error) {
	var n int64
	if err := d.QueryRow(ctx, q, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// noRows maps pgx.ErrNoRows onto domain.ErrNotFound.
func noRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
