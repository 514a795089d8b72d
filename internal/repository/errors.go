package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with a unique constraint,
// e.g. a newsletter email that is already enrolled.
var ErrDuplicate = errors.New("duplicate record")
