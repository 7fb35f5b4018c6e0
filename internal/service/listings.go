package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/RentVerify/internal/models"
)

// ListingRepository is the read-only listing catalog.
type ListingRepository interface {
	ListListings(ctx context.Context) ([]models.Listing, error)
	GetListing(ctx context.Context, id string) (*models.Listing, error)
}

// ListingService answers listing searches over a static catalog.
type ListingService struct {
	repo ListingRepository
}

// NewListingService constructs a ListingService backed by repo.
func NewListingService(repo ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

// GetAll returns the listings that satisfy every supplied predicate:
// search text contained case-insensitively in the title, address or
// description, price within [MinPrice, MaxPrice], and exact bedroom and
// bathroom counts. Empty values are ignored.
func (s *ListingService) GetAll(ctx context.Context, search string, filters models.ListingFilters) ([]models.Listing, error) {
	q, err := compileQuery(search, filters)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Listing, 0, len(all))
	for _, l := range all {
		if q.matches(&l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// GetDetail returns the listing with the exact id.
func (s *ListingService) GetDetail(ctx context.Context, id string) (*models.Listing, error) {
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrListingNotFound)
	}
	return l, nil
}

type listingQuery struct {
	search              string
	minPrice, maxPrice  *float64
	bedrooms, bathrooms *int
}

func compileQuery(search string, f models.ListingFilters) (listingQuery, error) {
	q := listingQuery{search: strings.ToLower(strings.TrimSpace(search))}

	var err error
	if q.minPrice, err = parseFloat("minPrice", f.MinPrice); err != nil {
		return q, err
	}
	if q.maxPrice, err = parseFloat("maxPrice", f.MaxPrice); err != nil {
		return q, err
	}
	if q.bedrooms, err = parseInt("bedrooms", f.Bedrooms); err != nil {
		return q, err
	}
	if q.bathrooms, err = parseInt("bathrooms", f.Bathrooms); err != nil {
		return q, err
	}
	return q, nil
}

func (q listingQuery) matches(l *models.Listing) bool {
	if q.search != "" &&
		!strings.Contains(strings.ToLower(l.Title), q.search) &&
		!strings.Contains(strings.ToLower(l.Address), q.search) &&
		!strings.Contains(strings.ToLower(l.Description), q.search) {
		return false
	}
	if q.minPrice != nil && l.Price < *q.minPrice {
		return false
	}
	if q.maxPrice != nil && l.Price > *q.maxPrice {
		return false
	}
	if q.bedrooms != nil && l.Bedrooms != *q.bedrooms {
		return false
	}
	if q.bathrooms != nil && l.Bathrooms != *q.bathrooms {
		return false
	}
	return true
}

func parseFloat(name, v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, name, v)
	}
	return &f, nil
}

func parseInt(name, v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, name, v)
	}
	return &n, nil
}
