package cache

import "errors"

var (
	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("cache database error")

	// ErrInvalidChecksum is returned when a checksum does not look like a
	// SHA256 hex digest.
	ErrInvalidChecksum = errors.New("invalid checksum format")
)
