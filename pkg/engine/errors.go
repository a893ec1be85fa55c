package engine

import "errors"

var (
	// ErrInvalidOrder rejects a submission before any book mutation:
	// empty symbol, non-positive price or quantity, or a rule failure.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrOrderNotFound reports a cancel for an id that is not resting:
	// unknown, already consumed, or already cancelled.
	ErrOrderNotFound = errors.New("order not found")
)
