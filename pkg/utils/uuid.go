package utils

import "github.com/google/uuid"

// GenerateUUID returns a random UUID v4 string, used for run identifiers.
func GenerateUUID() string {
	return uuid.NewString()
}
