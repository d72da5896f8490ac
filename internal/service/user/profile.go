package user

import (
	"context"
	"fmt"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/models"
	"github.com/nkiryanov/identity/internal/repository"
)

type GetUser struct {
	repo repository.UserRepo
}

func NewGetUser(repo repository.UserRepo) (*GetUser, error) {
	if repo == nil {
		return nil, apperrors.Misconfigured("user repository")
	}
	return &GetUser{repo: repo}, nil
}

func (uc *GetUser) Execute(ctx context.Context, id string) (models.User, error) {
	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("can't find user. Err: %w", err)
	}
	if user == nil {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return *user, nil
}
