package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidTransition rejects a status change that is not an edge of the order state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCapacityExceeded means the requested pickup slot is fully booked.
	ErrCapacityExceeded = errors.New("pickup slot unavailable")
	// ErrInvalidCode covers unknown codes and orders that are not ready for collection.
	ErrInvalidCode = errors.New("invalid pickup code")
	// ErrExpired marks an order whose pickup window has passed.
	ErrExpired = errors.New("order expired")
	// ErrCodeConflict is returned by storage when a pickup code is already held by a live order.
	ErrCodeConflict = errors.New("pickup code conflict")

	ErrStoreUnavailable = errors.New("store does not accept pickup orders")
	ErrInvalidOrder     = errors.New("invalid order")
	ErrInvalidSlot      = errors.New("invalid pickup slot")
)
