package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMalformedBody = errors.New("malformed JSON body")
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidID     = errors.New("id must be a positive integer")
)
