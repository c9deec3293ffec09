package analytics

import "errors"

// Validation failures raised at the start of an analytic operation.
// Callers match them with errors.Is; they are never retried.
var (
	// ErrUnknownSensor is returned when a sensor name is not recognized
	ErrUnknownSensor = errors.New("unknown sensor")

	// ErrEmptyInput is returned when an operation receives no rows
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidParameter is returned for out-of-range thresholds, windows,
	// bucket keys or malformed table rows
	ErrInvalidParameter = errors.New("invalid parameter")
)
