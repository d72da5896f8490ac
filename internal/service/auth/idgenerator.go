package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// Source of unique user identifiers
type IDGenerator interface {
	Generate() (string, error)
}

// Random (v4) UUID in canonical textual form
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("can't generate uuid. Err: %w", err)
	}
	return id.String(), nil
}
