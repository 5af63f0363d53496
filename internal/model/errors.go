package model

import "errors"

var (
	// ErrValidation is returned when an entry is missing required fields.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("entry not found")
	// ErrDuplicateID is returned when adding an entry whose id already exists.
	ErrDuplicateID = errors.New("duplicate entry id")
)
