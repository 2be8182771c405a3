package repo_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
)

func TestMapWriteErr(t *testing.T) {
	tests := []struct {
		name       string
		pgErr      *pgconn.PgError
		wantKind   error
		wantText   string
		constraint string
	}{
		{
			name:       "second review",
			pgErr:      &pgconn.PgError{Code: "23505", ConstraintName: "reviews_reservation_id_key"},
			wantKind:   domain.ErrConflict,
			wantText:   "conflict: a review already exists for this reservation",
			constraint: "reviews_reservation_id_key",
		},
		{
			name:       "unknown driver",
			pgErr:      &pgconn.PgError{Code: "23503", ConstraintName: "rides_personnel_id_fkey"},
			wantKind:   domain.ErrNotFound,
			wantText:   "not found: personnel does not exist",
			constraint: "rides_personnel_id_fkey",
		},
		{
			name:       "unlisted unique constraint",
			pgErr:      &pgconn.PgError{Code: "23505", ConstraintName: "some_new_key"},
			wantKind:   domain.ErrConflict,
			wantText:   "conflict: resource already exists",
			constraint: "some_new_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.MapWriteErr(tt.pgErr)

			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantText, err.Error())
			assert.NotContains(t, err.Error(), tt.constraint)

			var ce *domain.ConstraintError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.constraint, ce.Constraint)
		})
	}
}

func TestMapWriteErr_PassesOtherErrors(t *testing.T) {
	check := &pgconn.PgError{Code: "23514", ConstraintName: "reviews_rating_check"}
	assert.Same(t, error(check), repo.MapWriteErr(check))

	plain := errors.New("connection reset")
	assert.Same(t, plain, repo.MapWriteErr(plain))
}
