package pricing

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrInvalidRule = errors.New("invalid payment rule")
	ErrNotFound    = errors.New("space not found")
)
