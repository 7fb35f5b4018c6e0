package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/middleware"
	"github.com/atinyakov/RentVerify/internal/models"
)

// RequestService defines the request lifecycle operations required by
// RequestHandler.
type RequestService interface {
	CreateRequest(ctx context.Context, tenantID string, in models.RequestInput) (*models.VerificationRequest, error)
	ListTenantRequests(ctx context.Context, tenantID string) ([]*models.VerificationRequest, error)
	ListLandlordRequests(ctx context.Context, status string) ([]*models.VerificationRequest, error)
	GetTenantRequest(ctx context.Context, tenantID, id string) (*models.VerificationRequest, error)
	GetLandlordRequest(ctx context.Context, id string) (*models.VerificationRequest, error)
	UpdateRequest(ctx context.Context, tenantID, id string, patch models.RequestPatch) (*models.VerificationRequest, error)
	DeleteRequest(ctx context.Context, tenantID, id string) error
	StartReview(ctx context.Context, actorID, id string) (*models.VerificationRequest, error)
	ApproveRequest(ctx context.Context, actorID, id string) (*models.VerificationRequest, error)
	RejectRequest(ctx context.Context, actorID, id, reason string) (*models.VerificationRequest, error)
	RequestMoreInfo(ctx context.Context, actorID, id, message string) (*models.VerificationRequest, error)
}

// RequestHandler serves the tenant and landlord request endpoints. Tenant
// endpoints answer with the tenant projection, landlord endpoints with
// the landlord projection.
type RequestHandler struct {
	RequestService RequestService
	Log            *zap.Logger
}

// ReviewRequest is the optional body of the reject and more-info actions.
type ReviewRequest struct {
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Create handles POST /api/tenant/request.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.RequestInput
	if !decodeJSON(w, r, &in) {
		return
	}
	req, err := h.RequestService.CreateRequest(r.Context(), callerID(r), in)
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusCreated, req.ForTenant())
}

// ListMine handles GET /api/tenant/requests.
func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.RequestService.ListTenantRequests(r.Context(), callerID(r))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	out := make([]models.TenantView, len(reqs))
	for i, req := range reqs {
		out[i] = req.ForTenant()
	}
	respondJSON(w, http.StatusOK, out)
}

// GetMine handles GET /api/tenant/request/{id}.
func (h *RequestHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	req, err := h.RequestService.GetTenantRequest(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, req.ForTenant())
}

// UpdateMine handles PUT /api/tenant/request/{id}.
func (h *RequestHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	var patch models.RequestPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	req, err := h.RequestService.UpdateRequest(r.Context(), callerID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, req.ForTenant())
}

// DeleteMine handles DELETE /api/tenant/request/{id}.
func (h *RequestHandler) DeleteMine(w http.ResponseWriter, r *http.Request) {
	if err := h.RequestService.DeleteRequest(r.Context(), callerID(r), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAll handles GET /api/landlord/requests?status=.
func (h *RequestHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.RequestService.ListLandlordRequests(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	out := make([]models.LandlordView, len(reqs))
	for i, req := range reqs {
		out[i] = req.ForLandlord()
	}
	respondJSON(w, http.StatusOK, out)
}

// GetAny handles GET /api/landlord/request/{id}.
func (h *RequestHandler) GetAny(w http.ResponseWriter, r *http.Request) {
	req, err := h.RequestService.GetLandlordRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, req.ForLandlord())
}

// Review handles PUT /api/landlord/request/{id}/review.
func (h *RequestHandler) Review(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, actor, id string, _ ReviewRequest) (*models.VerificationRequest, error) {
		return h.RequestService.StartReview(ctx, actor, id)
	})
}

// Approve handles PUT /api/landlord/request/{id}/approve.
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, actor, id string, _ ReviewRequest) (*models.VerificationRequest, error) {
		return h.RequestService.ApproveRequest(ctx, actor, id)
	})
}

// Reject handles PUT /api/landlord/request/{id}/reject with an optional
// {"reason"} body.
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, actor, id string, body ReviewRequest) (*models.VerificationRequest, error) {
		return h.RequestService.RejectRequest(ctx, actor, id, strings.TrimSpace(body.Reason))
	})
}

// MoreInfo handles PUT /api/landlord/request/{id}/more-info with a
// {"message"} body.
func (h *RequestHandler) MoreInfo(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, actor, id string, body ReviewRequest) (*models.VerificationRequest, error) {
		return h.RequestService.RequestMoreInfo(ctx, actor, id, strings.TrimSpace(body.Message))
	})
}

type transitionFunc func(ctx context.Context, actor, id string, body ReviewRequest) (*models.VerificationRequest, error)

func (h *RequestHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	var body ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req, err := fn(r.Context(), callerID(r), chi.URLParam(r, "id"), body)
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, req.ForLandlord())
}

func callerID(r *http.Request) string {
	sess, _ := middleware.GetSession(r.Context())
	return sessionUser(sess)
}
