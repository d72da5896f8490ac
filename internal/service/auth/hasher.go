package auth

import (
	"fmt"
	"strings"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password. Salt is embedded into the result
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Names accepted by NewHasher
const (
	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"
)

// Return hasher by its name. Empty name means default one (bcrypt)
// New hashes are made by the named algorithm, stored hashes are compared
// by the algorithm they were made with, so switching hasher keeps old users able to login.
func NewHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", HasherBcrypt:
		return prefixHasher{PasswordHasher: BcryptHasher{}}, nil
	case HasherArgon2:
		return prefixHasher{PasswordHasher: NewArgon2Hasher()}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

type prefixHasher struct {
	PasswordHasher
}

func (h prefixHasher) Compare(hashedPassword string, password string) error {
	switch {
	case strings.HasPrefix(hashedPassword, "$argon2id$"):
		return NewArgon2Hasher().Compare(hashedPassword, password)
	case strings.HasPrefix(hashedPassword, "$2a$"), strings.HasPrefix(hashedPassword, "$2b$"), strings.HasPrefix(hashedPassword, "$2y$"):
		return BcryptHasher{}.Compare(hashedPassword, password)
	default:
		return h.PasswordHasher.Compare(hashedPassword, password)
	}
}
