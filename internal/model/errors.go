package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced entity does not exist at the store.
	ErrNotFound = errors.New("not found")
	// ErrIllegalTransition means the requested status change is not in the
	// transition table. Detected locally, never sent to the store.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrInvalidRole means a role value outside the enumerated set.
	ErrInvalidRole = errors.New("invalid role")
	// ErrStudentNotLinked means no student record back-references the
	// requesting user. Recoverable: the scoped view is simply empty.
	ErrStudentNotLinked = errors.New("no student linked to user")
	// ErrInvalidCredentials covers wrong password and role mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPartialFetch means one of the batched initialization fetches
	// failed; the working set stays empty.
	ErrPartialFetch = errors.New("initial fetch incomplete")
	// ErrRemote is a transport failure or unclassified 5xx from the store.
	ErrRemote = errors.New("remote store failure")
)

// ValidationError reports a malformed or missing field, detected before any
// remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
