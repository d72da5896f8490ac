package models

import (
	"github.com/nkiryanov/identity/internal/validate"
)

// User is the identity record.
// Values are set once by CreateUser and never change afterwards.
type User struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`

	// Always a hash produced by a password hasher, never plain password
	HashedPassword string `json:"-" validate:"required"`

	Age int `json:"age" validate:"gte=0"`
}

// CreateUser builds a valid user or returns *apperrors.ValidationError
func CreateUser(id, name, email, hashedPassword string, age int) (User, error) {
	u := User{
		ID:             id,
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		Age:            age,
	}

	if err := validate.Struct(u); err != nil {
		return User{}, err
	}

	return u, nil
}
