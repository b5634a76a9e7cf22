package report

import "errors"

var (
	// ErrNotFound is returned when the report doesn't exist
	ErrNotFound = errors.New("report not found")

	// ErrAlreadyResolved is returned when resolving a non-open report
	ErrAlreadyResolved = errors.New("report already resolved")

	ErrInternal = errors.New("internal error")
)
