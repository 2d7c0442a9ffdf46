package storage

import "errors"

// Common storage errors
var (
	// ErrRecordNotFound indicates that record was not found in collection
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidRecord indicates that record cannot be stored (missing id, not JSON)
	ErrInvalidRecord = errors.New("invalid record")
)
