package user

import (
	"context"
	"fmt"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/models"
	"github.com/nkiryanov/identity/internal/repository"
	"github.com/nkiryanov/identity/internal/service/auth"
	"github.com/nkiryanov/identity/internal/service/notify"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

type RegisterUser struct {
	repo   repository.UserRepo
	ids    auth.IDGenerator
	hasher auth.PasswordHasher
	sender notify.EmailSender
}

// Sender may be nil: no welcome email is sent then
func NewRegisterUser(repo repository.UserRepo, ids auth.IDGenerator, hasher auth.PasswordHasher, sender notify.EmailSender) (*RegisterUser, error) {
	switch {
	case repo == nil:
		return nil, apperrors.Misconfigured("user repository")
	case ids == nil:
		return nil, apperrors.Misconfigured("id generator")
	case hasher == nil:
		return nil, apperrors.Misconfigured("password hasher")
	}

	if sender == nil {
		sender = noopSender{}
	}

	return &RegisterUser{repo: repo, ids: ids, hasher: hasher, sender: sender}, nil
}

func (uc *RegisterUser) Execute(ctx context.Context, in RegisterInput) (models.User, error) {
	exists, err := uc.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return models.User{}, fmt.Errorf("can't check user exists. Err: %w", err)
	}
	if exists {
		return models.User{}, apperrors.ErrUserAlreadyExists
	}

	id, err := uc.ids.Generate()
	if err != nil {
		return models.User{}, fmt.Errorf("can't generate user id. Err: %w", err)
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := models.CreateUser(id, in.Name, in.Email, hash, in.Age)
	if err != nil {
		return models.User{}, err
	}

	// Unique constraint wins if another registration took the email meanwhile
	if err := uc.repo.Save(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("can't save user. Err: %w", err)
	}

	// Delivery errors must not fail registration
	_ = uc.sender.Send(ctx, notify.WelcomeEmail(user))

	return user, nil
}
