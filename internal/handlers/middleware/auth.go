package middleware

import (
	"net/http"
	"strings"

	"github.com/nkiryanov/identity/internal/apperrors"
	"github.com/nkiryanov/identity/internal/handlers/render"
	"github.com/nkiryanov/identity/internal/handlers/userctx"
	"github.com/nkiryanov/identity/internal/models"
)

type tokenVerifier interface {
	Verify(token string) (models.TokenPayload, error)
}

const bearerPrefix = "Bearer "

// AuthMiddleware verifies "Authorization: Bearer <token>" and puts token payload to request context
func AuthMiddleware(tokens tokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
				render.Error(w, apperrors.ErrTokenInvalid)
				return
			}

			payload, err := tokens.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				render.Error(w, err)
				return
			}

			ctx := userctx.New(r.Context(), payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
