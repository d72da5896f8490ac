package user

import (
	"context"
	"fmt"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/models"
	"github.com/nkiryanov/identity/internal/repository"
	"github.com/nkiryanov/identity/internal/service/auth"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginUser struct {
	repo   repository.UserRepo
	hasher auth.PasswordHasher
	tokens TokenGenerator
}

func NewLoginUser(repo repository.UserRepo, hasher auth.PasswordHasher, tokens TokenGenerator) (*LoginUser, error) {
	switch {
	case repo == nil:
		return nil, apperrors.Misconfigured("user repository")
	case hasher == nil:
		return nil, apperrors.Misconfigured("password hasher")
	case tokens == nil:
		return nil, apperrors.Misconfigured("token manager")
	}

	return &LoginUser{repo: repo, hasher: hasher, tokens: tokens}, nil
}

// Returns signed token. Unknown email and wrong password are indistinguishable
func (uc *LoginUser) Execute(ctx context.Context, in LoginInput) (string, error) {
	user, err := uc.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return "", fmt.Errorf("can't find user. Err: %w", err)
	}
	if user == nil {
		return "", apperrors.ErrInvalidCredentials
	}

	if err := uc.hasher.Compare(user.HashedPassword, in.Password); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := uc.tokens.Generate(models.TokenPayload{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", fmt.Errorf("can't issue token. Err: %w", err)
	}

	return token, nil
}
