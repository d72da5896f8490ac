package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/models"
)

func Test_GetUser(t *testing.T) {
	_, err := NewGetUser(nil)
	require.ErrorIs(t, err, apperrors.ErrMisconfigured)

	t.Run("found", func(t *testing.T) {
		repo := &repoMock{}
		stored := &models.User{ID: testID, Name: "John", Email: "john@example.com", HashedPassword: "hashed"}
		repo.On("FindByID", mock.Anything, testID).Return(stored, nil)
		uc, err := NewGetUser(repo)
		require.NoError(t, err)

		got, err := uc.Execute(t.Context(), testID)

		require.NoError(t, err)
		assert.Equal(t, *stored, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("FindByID", mock.Anything, testID).Return(nil, nil)
		uc, err := NewGetUser(repo)
		require.NoError(t, err)

		_, err = uc.Execute(t.Context(), testID)

		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
