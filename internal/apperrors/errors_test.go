package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	t.Run("matches sentinel", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewValidationError(map[string]string{"email": "Invalid value"}))

		require.ErrorIs(t, err, ErrValidation)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), "should be unwrapped to ValidationError")
		require.Equal(t, "Invalid value", vErr.Fields["email"])
	})

	t.Run("message is stable", func(t *testing.T) {
		err := NewValidationError(map[string]string{
			"name":  "This field is required",
			"email": "Invalid value",
		})

		require.Equal(t, "validation failed: email: Invalid value; name: This field is required", err.Error())
	})

	t.Run("does not match other errors", func(t *testing.T) {
		err := NewValidationError(nil)

		require.NotErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestMisconfigured(t *testing.T) {
	err := Misconfigured("repository")

	require.ErrorIs(t, err, ErrMisconfigured)
	require.Contains(t, err.Error(), "repository")
}
