package invite

import "errors"

var (
	// ErrAlreadyInvited is returned when the inviter already invited this email
	ErrAlreadyInvited = errors.New("email already invited")

	// ErrSelfInvite is returned when a user invites their own email
	ErrSelfInvite = errors.New("cannot invite yourself")

	// ErrAlreadyRegistered is returned when the invited email has an account
	ErrAlreadyRegistered = errors.New("email already registered")

	ErrInternal = errors.New("internal error")
)
