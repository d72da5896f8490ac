// Package repotest holds the behaviour every repository.UserRepo backend must share.
package repotest

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/models"
	"github.com/nkiryanov/identity/internal/repository"
)

func NewUser(t *testing.T, email string) models.User {
	t.Helper()

	user, err := models.CreateUser(uuid.NewString(), "John Doe", email, "$2a$10$hashed", 42)
	require.NoError(t, err)
	return user
}

// Run contract tests against connected repo.
// Repo is reset before every subtest, so subtests must not run in parallel.
func Run(t *testing.T, repo repository.UserRepo) {
	reset := func(t *testing.T) {
		require.NoError(t, repo.Reset(t.Context()))
	}

	t.Run("save and find by id round trip", func(t *testing.T) {
		reset(t)
		user := NewUser(t, "john@example.com")

		err := repo.Save(t.Context(), user)
		require.NoError(t, err)

		got, err := repo.FindByID(t.Context(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user, *got)
	})

	t.Run("find by id not found", func(t *testing.T) {
		reset(t)

		got, err := repo.FindByID(t.Context(), uuid.NewString())

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("find by email", func(t *testing.T) {
		reset(t)
		user := NewUser(t, "find@example.com")
		require.NoError(t, repo.Save(t.Context(), user))

		got, err := repo.FindByEmail(t.Context(), "find@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user, *got)

		missing, err := repo.FindByEmail(t.Context(), "missing@example.com")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("exists by email", func(t *testing.T) {
		reset(t)
		require.NoError(t, repo.Save(t.Context(), NewUser(t, "exists@example.com")))

		exists, err := repo.ExistsByEmail(t.Context(), "exists@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(t.Context(), "other@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		reset(t)
		first := NewUser(t, "dup@example.com")
		require.NoError(t, repo.Save(t.Context(), first))
		second := NewUser(t, "dup@example.com")
		second.Name = "Jane Doe"

		err := repo.Save(t.Context(), second)

		require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

		// Store is left as it was before rejected save
		got, err := repo.FindByEmail(t.Context(), "dup@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first, *got)

		rejected, err := repo.FindByID(t.Context(), second.ID)
		require.NoError(t, err)
		assert.Nil(t, rejected)
	})

	t.Run("concurrent saves with same email store one user", func(t *testing.T) {
		reset(t)
		const n = 8

		users := make([]models.User, n)
		for i := range n {
			users[i] = NewUser(t, "race@example.com")
		}

		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = repo.Save(t.Context(), users[i])
			}()
		}
		wg.Wait()

		saved := 0
		for _, err := range errs {
			if err == nil {
				saved++
				continue
			}
			require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		}
		assert.Equal(t, 1, saved)
	})

	t.Run("reset removes all users", func(t *testing.T) {
		reset(t)
		user := NewUser(t, "reset@example.com")
		require.NoError(t, repo.Save(t.Context(), user))

		err := repo.Reset(t.Context())
		require.NoError(t, err)

		got, err := repo.FindByID(t.Context(), user.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
		exists, err := repo.ExistsByEmail(t.Context(), user.Email)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
