package model

import "github.com/google/uuid"

// NewID creates a new entry id.
func NewID() string {
	return uuid.New().String()
}
