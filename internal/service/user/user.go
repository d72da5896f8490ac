// Package user holds identity use cases: registration, login and profile lookup.
package user

import (
	"context"

	"github.com/nkiryanov/identity/internal/models"
	"github.com/nkiryanov/identity/internal/service/notify"
)

// Issues tokens for logged in users
type TokenGenerator interface {
	Generate(payload models.TokenPayload) (string, error)
}

// Sender that accepts nothing. Used when registration has no notifications
type noopSender struct{}

func (noopSender) Send(context.Context, notify.Email) error { return nil }
