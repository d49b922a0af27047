package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no record matches.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by stores when a write loses to a concurrent writer, either on a
	// unique key or on a conditional update whose precondition no longer holds.
	ErrConflict = errors.New("conflicting write")

	// ErrContention is the ErrConflict a store returns when it aborted the write because of lock
	// contention rather than a changed record. Nothing was written.
	ErrContention = fmt.Errorf("%w: lock contention", ErrConflict)

	ErrActorNotFound  = errors.New("acting user not found")
	ErrTargetNotFound = errors.New("target not found")
	ErrInvalidKind    = errors.New("invalid interaction kind")

	// ErrConstraintViolation is surfaced when a uniqueness conflict could not be resolved by retrying.
	ErrConstraintViolation = errors.New("constraint violation")

	ErrValidationFailed = errors.New("validation failed")

	// ErrInvariantViolation signals store state that should be impossible, such as a
	// uniqueness conflict on an unbounded interaction kind.
	ErrInvariantViolation = errors.New("internal invariant violated")

	ErrSelfReview      = fmt.Errorf("%w: users cannot review themselves", ErrValidationFailed)
	ErrAlreadyReviewed = fmt.Errorf("%w: user has already been reviewed by this reviewer", ErrConstraintViolation)
)
