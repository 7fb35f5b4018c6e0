// Package http provides the JSON HTTP handlers of the RentVerify API.
package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/middleware"
	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/service"
)

// AuthService defines the session operations required by AuthHandler.
type AuthService interface {
	// Login checks the credentials and opens a session.
	Login(ctx context.Context, email, password string) (*models.Session, *models.User, error)
	// Signup registers an account and opens a session for it.
	Signup(ctx context.Context, in service.SignupInput) (*models.Session, *models.User, error)
	// Logout revokes the session behind token.
	Logout(ctx context.Context, token string)
	// CurrentSession resolves token to its active session.
	CurrentSession(ctx context.Context, token string) (*models.Session, error)
}

// AuthHandler handles login, signup, logout and session lookups.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Log         *zap.Logger
}

// LoginRequest is the JSON payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by login and signup.
type SessionResponse struct {
	Token string       `json:"token"`
	Role  models.Role  `json:"role"`
	User  *models.User `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sess, user, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{Token: sess.Token, Role: sess.Role, User: user})
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupInput
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, user, err := h.AuthService.Signup(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusCreated, SessionResponse{Token: sess.Token, Role: sess.Role, User: user})
}

// Logout handles POST /api/auth/logout. It always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.AuthService.Logout(r.Context(), middleware.GetToken(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, service.ErrUnauthorized.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess)
}
