package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/service"
	"github.com/atinyakov/RentVerify/internal/stepper"
)

// IntakeService defines the draft operations required by IntakeHandler.
type IntakeService interface {
	Start(ctx context.Context, tenantID, listingID string, initial map[string]any) (*service.IntakeState, error)
	Get(tenantID, id string) (*service.IntakeState, error)
	Next(tenantID, id string, partial map[string]any) (*service.IntakeState, error)
	Back(tenantID, id string) (*service.IntakeState, error)
	Submit(ctx context.Context, tenantID, id string) (*models.VerificationRequest, error)
	Discard(tenantID, id string) error
}

// IntakeHandler drives the tenant's multi-step verification intake.
type IntakeHandler struct {
	IntakeService IntakeService
	Log           *zap.Logger
}

// StartIntakeRequest is the JSON payload of POST /api/tenant/intake.
type StartIntakeRequest struct {
	ListingID string         `json:"listingId"`
	Initial   map[string]any `json:"initial,omitempty"`
}

// intakeFailure carries the unchanged draft next to the field errors.
type intakeFailure struct {
	errorResponse
	State *service.IntakeState `json:"state"`
}

// Start handles POST /api/tenant/intake.
func (h *IntakeHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartIntakeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ListingID == "" {
		respondWithError(w, http.StatusBadRequest, "listingId is required")
		return
	}
	st, err := h.IntakeService.Start(r.Context(), callerID(r), req.ListingID, req.Initial)
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusCreated, st)
}

// Get handles GET /api/tenant/intake/{id}.
func (h *IntakeHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.IntakeService.Get(callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// Next handles POST /api/tenant/intake/{id}/next with the current step's
// fields as a JSON object.
func (h *IntakeHandler) Next(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if !decodeJSON(w, r, &partial) {
		return
	}
	st, err := h.IntakeService.Next(callerID(r), chi.URLParam(r, "id"), partial)
	var verr *stepper.ValidationError
	if errors.As(err, &verr) && st != nil {
		respondJSON(w, http.StatusUnprocessableEntity, intakeFailure{
			errorResponse: errorResponse{Error: "validation failed", Step: verr.StepID, Fields: verr.Fields},
			State:         st,
		})
		return
	}
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// Back handles POST /api/tenant/intake/{id}/back.
func (h *IntakeHandler) Back(w http.ResponseWriter, r *http.Request) {
	st, err := h.IntakeService.Back(callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// Submit handles POST /api/tenant/intake/{id}/submit.
func (h *IntakeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := h.IntakeService.Submit(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusCreated, req.ForTenant())
}

// Discard handles DELETE /api/tenant/intake/{id}.
func (h *IntakeHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.IntakeService.Discard(callerID(r), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
