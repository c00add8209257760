package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrExchangeInFlight = errors.New("an exchange is already in flight")
	ErrUnauthorized     = errors.New("missing or rejected credentials")
	ErrUploadRejected   = errors.New("attachment upload rejected")
	ErrTokenUnavailable = errors.New("no auth token available")
)
