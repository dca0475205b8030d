package auth

import "errors"

// Sentinel kinds for auth errors.
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingSecret      = errors.New("jwt secret must not be empty")
)
