package recurring

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("time range conflicts with an existing reservation")
	ErrInvalidState = errors.New("invalid state")
	ErrNotAllowed   = errors.New("organization does not allow recurring reservations")
)
