package services

import "errors"

// Not-found errors
var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found or already cancelled")
)

// Conflict errors
var (
	ErrNoSeatsAvailable        = errors.New("no seats available")
	ErrSeatUnavailable         = errors.New("seat not available")
	ErrFlightAlreadyExists     = errors.New("flight number already exists")
	ErrFlightHasActiveBookings = errors.New("cannot remove flight with active bookings")
	ErrEmailTaken              = errors.New("email already registered")
)

// Access errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrNotAuthorized      = errors.New("not authorized")
)

// ErrValidation wraps request validation failures
var ErrValidation = errors.New("validation failed")

// ErrPersistence is returned when a mutation succeeded in memory but could not
// be written to the store. The ledger is written again on Close.
var ErrPersistence = errors.New("failed to persist ledger")
