package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/middleware"
	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/service"
)

// ProfileService defines the account operations required by ProfileHandler.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, patch service.ProfilePatch) (*models.User, error)
}

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	ProfileService ProfileService
	Log            *zap.Logger
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())
	u, err := h.ProfileService.Get(r.Context(), sessionUser(sess))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	sess, _ := middleware.GetSession(r.Context())
	u, err := h.ProfileService.Update(r.Context(), sessionUser(sess), patch)
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func sessionUser(sess *models.Session) string {
	if sess == nil {
		return ""
	}
	return sess.UserID
}
