package account

import "errors"

var (
	// ErrUserNotFound is returned when no user exists for the given id or email
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidRole is returned when a stored role is outside the known set
	ErrInvalidRole = errors.New("invalid account role")
)
