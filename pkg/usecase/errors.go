package usecase

import "errors"

// Sentinel errors for the use case layer. HTTP handlers map these to
// status codes; everything else is a 500.
var (
	// ErrBadRequest marks malformed or incomplete chat input.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized marks a missing, unknown or expired credential on a
	// surface that requires one.
	ErrUnauthorized = errors.New("unauthorized")
)
