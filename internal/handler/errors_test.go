package handler_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/handler"
)

// TestErrorMapping drives GET /tickets/{id} with every error kind the service
// layer can return and checks status, code and message.
func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", fmt.Errorf("service.X: %w: subject is required", domain.ErrValidation), http.StatusBadRequest, "validation_error", "subject is required"},
		{"forbidden", fmt.Errorf("service.X: %w: CLIENT may not perform ticket:read", domain.ErrForbidden), http.StatusForbidden, "forbidden", "CLIENT may not perform ticket:read"},
		{"not found", fmt.Errorf("repo.X: %w", domain.ErrNotFound), http.StatusNotFound, "not_found", "not found"},
		{"invalid state", fmt.Errorf("%w: cannot close a ticket that is OPEN", domain.ErrInvalidState), http.StatusConflict, "invalid_state", "cannot close a ticket that is OPEN"},
		{"conflict", fmt.Errorf("%w: row changed concurrently", domain.ErrConflict), http.StatusConflict, "conflict", "row changed concurrently"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "unauthorized"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHTTPHandler(handler.Deps{Tickets: &mockTickets{
				get: func(context.Context, domain.Actor, int64) (domain.SupportTicket, error) { return domain.SupportTicket{}, tc.err },
			}})

			rec := do(h, http.MethodGet, "/tickets/8", tokClient, nil)

			require.Equal(t, tc.status, rec.Code)
			env := decode[any](t, rec)
			assert.Equal(t, "ERROR", env.Status)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.Equal(t, tc.message, env.Error.Message)
		})
	}
}

// TestErrorMapping_internalIsGeneric checks that unexpected errors are logged
// with the request context but never leaked to the client.
func TestErrorMapping_internalIsGeneric(t *testing.T) {
	var logs bytes.Buffer
	h := newHTTPHandler(handler.Deps{
		Logger: slog.New(slog.NewJSONHandler(&logs, nil)),
		Tickets: &mockTickets{
			get: func(context.Context, domain.Actor, int64) (domain.SupportTicket, error) {
				return domain.SupportTicket{}, errors.New("pq: password authentication failed for user hotel")
			},
		},
	})

	rec := do(h, http.MethodGet, "/tickets/8", tokClient, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode[any](t, rec)
	assert.Equal(t, "internal server error", env.Error.Message)
	assert.Contains(t, logs.String(), "password authentication failed")
}

func TestAuthRequired(t *testing.T) {
	h := newHTTPHandler(handler.Deps{})

	rec := do(h, http.MethodGet, "/tickets/8", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodGet, "/tickets/8", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestUnlinkedAccount covers a valid token whose account has no personnel
// record: the request fails with 404 before any service is called.
func TestUnlinkedAccount(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Tickets: &mockTickets{}})

	rec := do(h, http.MethodGet, "/tickets/8", tokOrphan, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActorResolvedPerRequest(t *testing.T) {
	resolver := &stubResolver{}
	h := newHTTPHandler(handler.Deps{
		Actors: resolver,
		Tickets: &mockTickets{
			get: func(context.Context, domain.Actor, int64) (domain.SupportTicket, error) { return domain.SupportTicket{ID: 8}, nil },
		},
	})

	do(h, http.MethodGet, "/tickets/8", tokClient, nil)
	do(h, http.MethodGet, "/tickets/8", tokClient, nil)

	assert.Equal(t, 2, resolver.calls)
}

func TestBadPathID(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Tickets: &mockTickets{}})

	for _, path := range []string{"/tickets/abc", "/tickets/0", "/tickets/-3"} {
		rec := do(h, http.MethodGet, path, tokClient, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newHTTPHandler(handler.Deps{})

	rec := do(h, http.MethodGet, "/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ERROR", decode[any](t, rec).Status)
}

func TestMalformedJSON(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Tickets: &mockTickets{}})

	rec := do(h, http.MethodPost, "/tickets", tokClient, bytes.NewBufferString(`{"type":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/tickets", tokClient, bytes.NewBufferString(`{"type":"RIDE","subject":"x","priority":1}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")
}
