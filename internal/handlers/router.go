package handlers

import (
	"net/http"

	"github.com/nkiryanov/identity/internal/handlers/middleware"
	"github.com/nkiryanov/identity/internal/logger"
	"github.com/nkiryanov/identity/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type tokenVerifier interface {
	Verify(token string) (models.TokenPayload, error)
}

func NewRouter(users *UsersHandler, tokens tokenVerifier, l logger.Logger) http.Handler {
	withAuth := middleware.AuthMiddleware(tokens)

	apiusers := http.NewServeMux()
	apiusers.HandleFunc("POST /register", users.handleRegister)
	apiusers.HandleFunc("POST /login", users.handleLogin)
	apiusers.Handle("GET /me", withAuth(http.HandlerFunc(users.handleMe)))

	root := http.NewServeMux()
	root.Handle("/users/", http.StripPrefix("/users", apiusers))

	return chain(root,
		middleware.AccessLog(l),
	)
}
