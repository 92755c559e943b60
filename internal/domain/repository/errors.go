package repository

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches. For tasks
	// this also covers rows owned by someone else.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness constraint rejects a write
	// (duplicate email).
	ErrConflict = errors.New("conflict")
)
