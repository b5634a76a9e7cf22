package question

import "errors"

var (
	// ErrNotFound is returned when the question doesn't exist
	ErrNotFound = errors.New("question not found")

	// ErrSelfAnswer is returned when a user answers their own question
	ErrSelfAnswer = errors.New("cannot answer your own question")

	// ErrAlreadyAnswered is returned when a user answers the same question twice
	ErrAlreadyAnswered = errors.New("question already answered by this user")

	// ErrForbidden is returned when a caller mutates a question they don't own
	ErrForbidden = errors.New("forbidden")

	ErrInternal = errors.New("internal error")
)
