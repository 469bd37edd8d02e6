// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors for the core operations. Callers match them with
// errors.Is; handlers translate them to HTTP status codes.
var (
	// ErrValidation marks malformed or missing input. Surfaced before any
	// write, so a validation failure never leaves partial effects.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing medicine, sale record, or sale item.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock marks a stock decrement that would drive a
	// medicine's quantity negative. The whole operation is rolled back.
	ErrInsufficientStock = errors.New("insufficient stock")
)
