package service

import "errors"

// Workflow error taxonomy. The API layer maps these onto the response
// envelope: 400, 401, 404, 409 respectively.
var (
	// ErrInvalidRequest means the input was malformed; nothing was mutated.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthenticated means no caller identity was established.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound covers both a missing resource and an ownership
	// mismatch; the two are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a status transition out of a terminal state was
	// attempted.
	ErrConflict = errors.New("conflict")
)
