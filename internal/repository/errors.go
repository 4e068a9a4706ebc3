package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// soft-deleted.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write violates a uniqueness constraint
	// (user email, vehicle registration number).
	ErrDuplicate = errors.New("entity already exists")
)
