package mail

import "errors"

var (
	// ErrNotFound is returned when the message doesn't exist or isn't visible
	ErrNotFound = errors.New("message not found")

	// ErrRecipientNotFound is returned when the recipient doesn't exist
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrSelfMessage is returned when a user messages themselves
	ErrSelfMessage = errors.New("cannot message yourself")

	ErrInternal = errors.New("internal error")
)
