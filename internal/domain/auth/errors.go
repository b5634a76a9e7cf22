package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for a wrong email/password pair
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when the email is already registered
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidRefreshToken is returned for an unknown, expired or revoked refresh token
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrBanned is returned when a banned user tries to log in
	ErrBanned = errors.New("account banned")

	ErrInternal = errors.New("internal error")
)
