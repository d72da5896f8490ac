package user

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/repository"
	"github.com/nkiryanov/identity/internal/repository/postgres"
	"github.com/nkiryanov/identity/internal/repository/redis"
	"github.com/nkiryanov/identity/internal/service/auth"
	"github.com/nkiryanov/identity/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/identity/internal/testutil"
)

// Register then login against real stores, same expectations for both backends
func Test_RegisterLogin_Integration(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)
	rc := testutil.StartRedisContainer(t)
	t.Cleanup(rc.Terminate)

	backends := map[string]repository.UserRepo{
		"postgres": postgres.NewUserRepo(pg.DSN),
		"redis":    redis.NewUserRepo(rc.URL, ""),
	}

	for name, repo := range backends {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Connect(t.Context()))
			t.Cleanup(func() { _ = repo.Disconnect(t.Context()) })
			require.NoError(t, repo.Reset(t.Context()))

			hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
			tokens, err := tokenmanager.New(tokenmanager.Config{SecretKey: "secret", TTL: time.Minute})
			require.NoError(t, err)
			sender := &senderMock{}
			sender.On("Send", mock.Anything, mock.Anything).Return(nil)

			register, err := NewRegisterUser(repo, auth.UUIDGenerator{}, hasher, sender)
			require.NoError(t, err)
			login, err := NewLoginUser(repo, hasher, tokens)
			require.NoError(t, err)

			registered, err := register.Execute(t.Context(), RegisterInput{Name: "John", Email: "john@example.com", Password: "secret", Age: 30})
			require.NoError(t, err)
			assert.NotEqual(t, "secret", registered.HashedPassword)
			sender.AssertNumberOfCalls(t, "Send", 1)

			token, err := login.Execute(t.Context(), LoginInput{Email: "john@example.com", Password: "secret"})
			require.NoError(t, err)
			payload, err := tokens.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, registered.ID, payload.UserID)

			_, err = login.Execute(t.Context(), LoginInput{Email: "john@example.com", Password: "wrong"})
			require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

			_, err = register.Execute(t.Context(), RegisterInput{Name: "Jane", Email: "john@example.com", Password: "other", Age: 20})
			require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	}
}

func Test_RegisterConcurrent_Integration(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	repo := postgres.NewUserRepo(pg.DSN)
	require.NoError(t, repo.Connect(t.Context()))
	t.Cleanup(func() { _ = repo.Disconnect(t.Context()) })

	register, err := NewRegisterUser(repo, auth.UUIDGenerator{}, auth.BcryptHasher{Cost: bcrypt.MinCost}, nil)
	require.NoError(t, err)

	const n = 5
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = register.Execute(t.Context(), RegisterInput{Name: "John", Email: "race@example.com", Password: "secret", Age: 30})
		}()
	}
	wg.Wait()

	registered := 0
	for _, err := range errs {
		if err == nil {
			registered++
			continue
		}
		require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	}
	assert.Equal(t, 1, registered)
}
