package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/service"
	"github.com/atinyakov/RentVerify/internal/stepper"
	"github.com/atinyakov/RentVerify/internal/validate"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error  string            `json:"error"`
	Step   string            `json:"step,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, errorResponse{Error: message})
}

// decodeJSON reads the request body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondWithServiceError maps a service error onto its status code.
// Unexpected errors are logged and reported as 500.
func respondWithServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var (
		stepErr  *stepper.ValidationError
		fieldErr validate.FieldErrors
	)
	switch {
	case errors.As(err, &stepErr):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Step: stepErr.StepID, Fields: stepErr.Fields})
	case errors.As(err, &fieldErr):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: fieldErr})
	case errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, rootMessage(err))
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, rootMessage(err))
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidFilter):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, stepper.ErrNotAtLastStep),
		errors.Is(err, stepper.ErrSubmitInProgress):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

// rootMessage hides wrapped details such as token parse failures.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		service.ErrRequestNotFound,
		service.ErrListingNotFound,
		service.ErrDraftNotFound,
		service.ErrUserNotFound,
		service.ErrInvalidCredentials,
		service.ErrUnauthorized,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
