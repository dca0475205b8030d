package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrEmailTaken        = errors.New("email already registered")
)
