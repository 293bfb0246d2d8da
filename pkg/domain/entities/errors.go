package entities

import "errors"

// Boundary validation errors. The engines never fail for business-as-usual
// edge cases (empty inputs, unknown items, zero inventory); these errors are
// reserved for call shapes that would otherwise produce silently wrong output.
var (
	ErrNilArgument     = errors.New("required argument is missing")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidDuration = errors.New("duration must not be negative")
)
