package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/models"
)

func Test_NewLoginUser(t *testing.T) {
	repo, hasher, tokens := &repoMock{}, &hasherMock{}, &tokensMock{}

	_, err := NewLoginUser(nil, hasher, tokens)
	require.ErrorIs(t, err, apperrors.ErrMisconfigured)

	_, err = NewLoginUser(repo, nil, tokens)
	require.ErrorIs(t, err, apperrors.ErrMisconfigured)

	_, err = NewLoginUser(repo, hasher, nil)
	require.ErrorIs(t, err, apperrors.ErrMisconfigured)

	uc, err := NewLoginUser(repo, hasher, tokens)
	require.NoError(t, err)
	require.NotNil(t, uc)
}

func Test_LoginUser(t *testing.T) {
	stored := &models.User{ID: testID, Name: "John", Email: "john@example.com", HashedPassword: "hashed", Age: 30}
	input := LoginInput{Email: "john@example.com", Password: "secret"}

	setup := func(t *testing.T) (*LoginUser, *repoMock, *hasherMock, *tokensMock) {
		repo, hasher, tokens := &repoMock{}, &hasherMock{}, &tokensMock{}
		uc, err := NewLoginUser(repo, hasher, tokens)
		require.NoError(t, err)
		t.Cleanup(func() {
			repo.AssertExpectations(t)
			hasher.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
		return uc, repo, hasher, tokens
	}

	t.Run("login ok", func(t *testing.T) {
		uc, repo, hasher, tokens := setup(t)
		repo.On("FindByEmail", mock.Anything, "john@example.com").Return(stored, nil)
		hasher.On("Compare", "hashed", "secret").Return(nil)
		tokens.On("Generate", models.TokenPayload{UserID: testID, Email: "john@example.com"}).Return("signed", nil)

		token, err := uc.Execute(t.Context(), input)

		require.NoError(t, err)
		assert.Equal(t, "signed", token)
	})

	t.Run("unknown email", func(t *testing.T) {
		uc, repo, _, tokens := setup(t)
		repo.On("FindByEmail", mock.Anything, "john@example.com").Return(nil, nil)

		_, err := uc.Execute(t.Context(), input)

		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		tokens.AssertNotCalled(t, "Generate", mock.Anything)
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, repo, hasher, tokens := setup(t)
		repo.On("FindByEmail", mock.Anything, "john@example.com").Return(stored, nil)
		hasher.On("Compare", "hashed", "secret").Return(errors.New("mismatch"))

		_, err := uc.Execute(t.Context(), input)

		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		require.Equal(t, apperrors.ErrInvalidCredentials.Error(), err.Error(), "must not tell which part was wrong")
		tokens.AssertNotCalled(t, "Generate", mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		uc, repo, _, _ := setup(t)
		repo.On("FindByEmail", mock.Anything, "john@example.com").Return(nil, apperrors.ErrRepository)

		_, err := uc.Execute(t.Context(), input)

		require.ErrorIs(t, err, apperrors.ErrRepository)
		require.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("token failure", func(t *testing.T) {
		uc, repo, hasher, tokens := setup(t)
		repo.On("FindByEmail", mock.Anything, "john@example.com").Return(stored, nil)
		hasher.On("Compare", "hashed", "secret").Return(nil)
		tokens.On("Generate", mock.Anything).Return("", errors.New("sign failed"))

		_, err := uc.Execute(t.Context(), input)

		require.Error(t, err)
	})
}
