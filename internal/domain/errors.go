// Package domain contains the core data types of the hotel and fleet API:
// accounts and actors, ride requests and rides, driver documents,
// reservations, reviews and support tickets. It has no external dependencies
// and is imported by every other internal package (repo, service, handler).
package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database, or when an authenticated principal
// has no linked client/personnel record.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, rating out of range).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned by the access guard when the actor may not perform
// the requested action on the resource.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when credentials are missing or wrong.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidState is returned when a status transition is not legal from the
// resource's current status. It is always raised before any write.
// Handlers should map this to HTTP 409.
var ErrInvalidState = errors.New("invalid state transition")

// ErrConflict is returned when a write loses a race (the row left the expected
// status between read and conditional update) or violates a uniqueness rule.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ConstraintError is a write rejected by a database constraint. Its text is a
// fixed message safe to show to callers; Constraint is for logs only.
type ConstraintError struct {
	Kind       error // ErrConflict or ErrNotFound
	Constraint string
	Message    string
}

func (e *ConstraintError) Error() string { return e.Kind.Error() + ": " + e.Message }

func (e *ConstraintError) Unwrap() error { return e.Kind }
