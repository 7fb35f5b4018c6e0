package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/models"
)

// ListingService defines the catalog queries required by ListingHandler.
type ListingService interface {
	GetAll(ctx context.Context, search string, filters models.ListingFilters) ([]models.Listing, error)
	GetDetail(ctx context.Context, id string) (*models.Listing, error)
}

// ListingHandler serves the public listing catalog.
type ListingHandler struct {
	ListingService ListingService
	Log            *zap.Logger
}

// List handles GET /api/listings.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.ListingFilters{
		MinPrice:  q.Get("minPrice"),
		MaxPrice:  q.Get("maxPrice"),
		Bedrooms:  q.Get("bedrooms"),
		Bathrooms: q.Get("bathrooms"),
	}

	listings, err := h.ListingService.GetAll(r.Context(), q.Get("search"), filters)
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, listings)
}

// Get handles GET /api/listings/{id}.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.ListingService.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}
