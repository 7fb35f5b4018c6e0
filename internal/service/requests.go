// Package service provides the business logic of the verification
// workflow, delegating persistence to repository interfaces.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/RentVerify/internal/models"
)

// RequestRepository defines the persistence operations needed by the
// RequestService. Every method returns repository.ErrNotFound for an
// unknown id.
type RequestRepository interface {
	// Create stores a new request.
	Create(ctx context.Context, req *models.VerificationRequest) (*models.VerificationRequest, error)
	// List returns every request matching filter.
	List(ctx context.Context, filter models.RequestFilter) ([]*models.VerificationRequest, error)
	// Get returns the request with id.
	Get(ctx context.Context, id string) (*models.VerificationRequest, error)
	// Update shallow-merges patch into the request.
	Update(ctx context.Context, id string, patch models.RequestPatch) (*models.VerificationRequest, error)
	// Delete removes the request.
	Delete(ctx context.Context, id string) error
	// SetStatus sets the status, appends note to the notes and records
	// entry in the history as one operation.
	SetStatus(ctx context.Context, id string, status models.Status, note string, entry models.HistoryEntry) (*models.VerificationRequest, error)
}

// Review actions recorded in a request's history.
const (
	ActionSubmit   = "submit"
	ActionReview   = "review"
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionMoreInfo = "more_info"
)

// RequestService implements the request lifecycle over one store shared
// by the tenant and landlord views.
type RequestService struct {
	repo  RequestRepository
	now   func() time.Time
	newID func() string
}

// NewRequestService constructs a RequestService backed by repo.
func NewRequestService(repo RequestRepository) *RequestService {
	return &RequestService{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return "req-" + uuid.NewString() },
	}
}

// CreateRequest stores a new request owned by tenantID with status
// submitted and fresh timestamps.
func (s *RequestService) CreateRequest(ctx context.Context, tenantID string, in models.RequestInput) (*models.VerificationRequest, error) {
	now := s.now()
	req := &models.VerificationRequest{
		ID:           s.newID(),
		TenantID:     tenantID,
		ListingID:    in.ListingID,
		PropertyName: in.PropertyName,
		Address:      in.Address,
		Status:       models.StatusSubmitted,
		TenantName:   in.TenantName,
		TenantEmail:  in.TenantEmail,
		TenantPhone:  in.TenantPhone,
		MoveInDate:   in.MoveInDate,
		Employment:   in.Employment,
		References:   in.References,
		Documents:    in.Documents,
		Notes:        in.Notes,
		History:      []models.HistoryEntry{{At: now, Actor: tenantID, Action: ActionSubmit}},
		CreatedAt:    now,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}
	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return created, nil
}

// ListTenantRequests returns the requests owned by tenantID.
func (s *RequestService) ListTenantRequests(ctx context.Context, tenantID string) ([]*models.VerificationRequest, error) {
	return s.repo.List(ctx, models.RequestFilter{TenantID: tenantID})
}

// ListLandlordRequests returns every request, or only those whose status
// equals status when it is non-empty.
func (s *RequestService) ListLandlordRequests(ctx context.Context, status string) ([]*models.VerificationRequest, error) {
	filter := models.RequestFilter{}
	if status != "" {
		st := models.Status(status)
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		filter.Statuses = []models.Status{st}
	}
	return s.repo.List(ctx, filter)
}

// GetTenantRequest returns the request id if tenantID owns it. A request
// owned by someone else is reported as not found.
func (s *RequestService) GetTenantRequest(ctx context.Context, tenantID, id string) (*models.VerificationRequest, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	if req.TenantID != tenantID {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

// GetLandlordRequest returns the request id.
func (s *RequestService) GetLandlordRequest(ctx context.Context, id string) (*models.VerificationRequest, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	return req, nil
}

// UpdateRequest merges patch into a request owned by tenantID.
func (s *RequestService) UpdateRequest(ctx context.Context, tenantID, id string, patch models.RequestPatch) (*models.VerificationRequest, error) {
	if _, err := s.GetTenantRequest(ctx, tenantID, id); err != nil {
		return nil, err
	}
	req, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	return req, nil
}

// DeleteRequest removes a request owned by tenantID from every view.
func (s *RequestService) DeleteRequest(ctx context.Context, tenantID, id string) error {
	if _, err := s.GetTenantRequest(ctx, tenantID, id); err != nil {
		return err
	}
	return notFound(s.repo.Delete(ctx, id), ErrRequestNotFound)
}

// StartReview moves a request into review.
func (s *RequestService) StartReview(ctx context.Context, actorID, id string) (*models.VerificationRequest, error) {
	return s.transition(ctx, id, models.StatusInReview, "", models.HistoryEntry{Actor: actorID, Action: ActionReview})
}

// ApproveRequest approves a request.
func (s *RequestService) ApproveRequest(ctx context.Context, actorID, id string) (*models.VerificationRequest, error) {
	return s.transition(ctx, id, models.StatusApproved, "", models.HistoryEntry{Actor: actorID, Action: ActionApprove})
}

// RejectRequest rejects a request. A non-empty reason is appended to the
// notes.
func (s *RequestService) RejectRequest(ctx context.Context, actorID, id, reason string) (*models.VerificationRequest, error) {
	note := ""
	if reason != "" {
		note = "\nRejection reason: " + reason
	}
	return s.transition(ctx, id, models.StatusRejected, note, models.HistoryEntry{Actor: actorID, Action: ActionReject, Message: reason})
}

// RequestMoreInfo asks the tenant for more information and appends
// message to the notes.
func (s *RequestService) RequestMoreInfo(ctx context.Context, actorID, id, message string) (*models.VerificationRequest, error) {
	note := "\nAdditional info requested: " + message
	return s.transition(ctx, id, models.StatusMoreInfoRequired, note, models.HistoryEntry{Actor: actorID, Action: ActionMoreInfo, Message: message})
}

func (s *RequestService) transition(ctx context.Context, id string, status models.Status, note string, entry models.HistoryEntry) (*models.VerificationRequest, error) {
	entry.At = s.now()
	req, err := s.repo.SetStatus(ctx, id, status, note, entry)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	return req, nil
}
