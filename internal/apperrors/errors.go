package apperrors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Store is unavailable or failed on I/O
	ErrRepository = errors.New("repository failure")

	// Use case or service constructed without required collaborator
	ErrMisconfigured = errors.New("misconfigured dependency")

	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")

	// Matches any *ValidationError with errors.Is
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes malformed input: field name -> human readable problem
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Missing collaborator error, e.g. Misconfigured("repository")
func Misconfigured(dependency string) error {
	return fmt.Errorf("%w: %s is required", ErrMisconfigured, dependency)
}
