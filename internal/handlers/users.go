package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/identity/internal/handlers/render"
	"github.com/nkiryanov/identity/internal/handlers/userctx"
	"github.com/nkiryanov/identity/internal/models"
	"github.com/nkiryanov/identity/internal/service/user"
)

type registerUser interface {
	Execute(ctx context.Context, in user.RegisterInput) (models.User, error)
}

type loginUser interface {
	Execute(ctx context.Context, in user.LoginInput) (string, error)
}

type getUser interface {
	Execute(ctx context.Context, id string) (models.User, error)
}

type errLogger interface {
	Error(msg string, args ...any)
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Age: u.Age}
}

type UsersHandler struct {
	register registerUser
	login    loginUser
	get      getUser
	logger   errLogger
}

func NewUsers(register registerUser, login loginUser, get getUser, l errLogger) *UsersHandler {
	return &UsersHandler{register: register, login: login, get: get, logger: l}
}

func (h *UsersHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Name     string `json:"name" validate:"required,notblank,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=128"`
		Age      *int   `json:"age" validate:"required,gte=0,lte=150"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	u, err := h.register.Execute(r.Context(), user.RegisterInput{
		Name:     data.Name,
		Email:    data.Email,
		Password: data.Password,
		Age:      *data.Age,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Created(w, newUserResponse(u))
}

func (h *UsersHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type LoginResponse struct {
		Token string `json:"token"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	token, err := h.login.Execute(r.Context(), user.LoginInput{Email: data.Email, Password: data.Password})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, LoginResponse{Token: token})
}

// Requires auth middleware
func (h *UsersHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	payload, _ := userctx.FromContext(r.Context())

	u, err := h.get.Execute(r.Context(), payload.UserID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, newUserResponse(u))
}

func (h *UsersHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	rec := &statusRecorder{ResponseWriter: w}
	render.Error(rec, err)

	if rec.status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "uri", r.RequestURI, "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
