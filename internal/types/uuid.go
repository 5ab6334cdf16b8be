package types

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUID returns a new random UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateUUIDWithPrefix returns a new random UUID string with the given prefix
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
