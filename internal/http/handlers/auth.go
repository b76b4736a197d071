package handlers

import (
	"context"
	"net/http"

	"github.com/hongminglow/library-be/internal/auth"
	"github.com/hongminglow/library-be/internal/http/respond"
	"github.com/hongminglow/library-be/internal/middleware"
	"github.com/hongminglow/library-be/internal/models"
	"github.com/hongminglow/library-be/internal/models/dto"
)

// AuthService is the account surface used by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput, isAdmin bool) (models.User, error)
	Login(ctx context.Context, username, password string) (auth.LoginResult, error)
}

// AuthHandler owns the register/login endpoints.
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/registerNormalUser", h.handleRegister(false))
	mux.Handle("POST /auth/registerAdminUser", middleware.RequireRole(models.RoleAdmin, h.handleRegister(true)))
	mux.HandleFunc("POST /auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(isAdmin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RegisterRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		user, err := h.svc.Register(r.Context(), auth.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		}, isAdmin)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "User created successfully", dto.NewUserResponse(user))
	}
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{
		Token:    res.Token,
		Username: res.Username,
		Roles:    res.Roles,
	})
}
