package credit

import "errors"

var (
	// ErrInvalidID is returned for a malformed user identifier. Callers should
	// treat it as "no data", not as a server failure.
	ErrInvalidID = errors.New("invalid user id")

	// ErrInvalidSchedule is returned when a schedule update carries a negative amount
	ErrInvalidSchedule = errors.New("invalid credit schedule: amounts must not be negative")

	ErrInternal = errors.New("internal error")
)
