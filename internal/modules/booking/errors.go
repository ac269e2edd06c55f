package booking

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("reservation not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("time range conflicts with an existing reservation")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("outside the venue's open hours")
)
