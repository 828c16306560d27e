package common

import "errors"

var (
	// Validation errors raised before any network call.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrNoToken      = errors.New("no auth token stored")
	ErrInvalidToken = errors.New("invalid token")
)
