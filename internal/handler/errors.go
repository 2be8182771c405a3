package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// envelope is the body of every JSON response.
type envelope struct {
	Status string       `json:"status"`
	Data   any          `json:"data,omitempty"`
	Error  *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Status: "OK", Data: data})
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Status: "ERROR", Error: &errorDetail{Code: code, Message: message}})
}

// errorKinds maps each domain sentinel onto its status and error code.
// Order matters only for errors that wrap more than one sentinel.
var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrValidation, http.StatusBadRequest, "validation_error"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
}

// writeError is the single place where errors become HTTP responses.
// Anything that is not a domain error is logged and answered with a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErrorBody(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return
	}
	var constraint *domain.ConstraintError
	if errors.As(err, &constraint) {
		s.log.InfoContext(r.Context(), "write rejected by constraint",
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"constraint", constraint.Constraint,
		)
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			msg := unwrapMessage(err, k.err)
			if constraint != nil {
				msg = constraint.Message
			}
			writeErrorBody(w, k.status, k.code, msg)
			return
		}
	}

	s.log.ErrorContext(r.Context(), "unhandled error",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimiddleware.GetReqID(r.Context()),
		"error", err,
	)
	writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// unwrapMessage extracts the human-readable part that follows the sentinel.
// e.g. "service.RideService.Create: validation error: pickup_time is required"
// → "pickup_time is required". Layer prefixes never reach the client.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return marker
	}
	rest := strings.TrimPrefix(msg[i+len(marker):], ": ")
	if rest == "" {
		return marker
	}
	return rest
}
