package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSegmentation indicates segmentation parameters that
	// cannot produce forward progress (chunk size <= overlap,
	// non-positive sizes). Rejected before any text is processed.
	ErrInvalidSegmentation = errors.New("invalid segmentation parameters")

	// ErrUnknownGranularity indicates a granularity preset name that
	// is not registered.
	ErrUnknownGranularity = errors.New("unknown granularity preset")
)
