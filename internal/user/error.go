package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrMissingSecret      = errors.New("JWT_SECRET is not set")
	ErrInvalidToken       = errors.New("invalid token")
)
