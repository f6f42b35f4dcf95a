package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrMalformedEvent marks a broker message whose routing key or body
	// cannot be decoded into a domain event. The consumer drops such
	// messages without requeue.
	ErrMalformedEvent = errors.New("malformed event")
)
