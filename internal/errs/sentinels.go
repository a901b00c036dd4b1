// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers. Anything that is not one of these
// is treated as a persistence failure at the HTTP boundary.
var (
	// ErrNotFound indicates the requested account or artwork does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated indicates a missing, stale, or mismatched session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAuthFailure indicates bad credentials. It never says which field was wrong.
	ErrAuthFailure = errors.New("invalid credentials")

	// ErrDuplicateUsername indicates the username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidID indicates a malformed identifier (as opposed to a missing entity).
	ErrInvalidID = errors.New("invalid id")

	// ErrValidation indicates rejected input (empty username, password, review text).
	ErrValidation = errors.New("validation")
)
