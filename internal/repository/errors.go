package repository

import "errors"

// ErrNotFound is returned by single-row fetches when no row matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// ErrAlreadyAssigned is returned when a user already belongs to a company.
var ErrAlreadyAssigned = errors.New("user already assigned to a company")
