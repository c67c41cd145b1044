package core

import "github.com/google/uuid"

// NewInstanceID returns a fresh identifier for scenes and scene objects.
func NewInstanceID() uuid.UUID {
	return uuid.New()
}
