package user

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nkiryanov/identity/internal/models"
	"github.com/nkiryanov/identity/internal/service/notify"
)

type repoMock struct{ mock.Mock }

func (m *repoMock) Connect(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *repoMock) Disconnect(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *repoMock) Reset(ctx context.Context) error      { return m.Called(ctx).Error(0) }

func (m *repoMock) Save(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *repoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *repoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *repoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type idsMock struct{ mock.Mock }

func (m *idsMock) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type hasherMock struct{ mock.Mock }

func (m *hasherMock) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *hasherMock) Compare(hashedPassword string, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}

type tokensMock struct{ mock.Mock }

func (m *tokensMock) Generate(payload models.TokenPayload) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

type senderMock struct{ mock.Mock }

func (m *senderMock) Send(ctx context.Context, email notify.Email) error {
	return m.Called(ctx, email).Error(0)
}
