package domain

import "errors"

// Sentinel errors for the livery domain. Use errors.Is() to check these.
var (
	// ErrLiveryNotFound indicates the requested livery does not exist.
	ErrLiveryNotFound = errors.New("livery not found")

	// ErrLiveryAlreadyExists indicates a livery with the same id already exists.
	ErrLiveryAlreadyExists = errors.New("livery already exists")

	// ErrInvalidLivery indicates the livery violates domain constraints.
	ErrInvalidLivery = errors.New("invalid livery")

	// ErrInvalidFilter indicates a filter the engine refuses to plan.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrStaleCursor indicates the cursor no longer identifies a position in
	// the requested scope. Only returned when strict cursors are enabled.
	ErrStaleCursor = errors.New("stale cursor")
)
