package userctx

import (
	"context"

	"github.com/nkiryanov/identity/internal/models"
)

type ctxKey string

const tokenKey ctxKey = "token"

// Create a new context with verified token payload
func New(ctx context.Context, p models.TokenPayload) context.Context {
	return context.WithValue(ctx, tokenKey, p)
}

// Extract the token payload from the context
func FromContext(ctx context.Context) (models.TokenPayload, bool) {
	p, ok := ctx.Value(tokenKey).(models.TokenPayload)
	return p, ok
}
