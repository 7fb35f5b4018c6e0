package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/service"
)

// MyRequests lists the tenant's own requests.
func (c *Client) MyRequests(ctx context.Context) ([]models.TenantView, error) {
	var out []models.TenantView
	if err := c.do(ctx, http.MethodGet, "/api/tenant/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyRequest returns one of the tenant's requests.
func (c *Client) MyRequest(ctx context.Context, id string) (*models.TenantView, error) {
	var out models.TenantView
	if err := c.do(ctx, http.MethodGet, "/api/tenant/request/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRequest withdraws one of the tenant's requests.
func (c *Client) DeleteRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tenant/request/"+url.PathEscape(id), nil, nil)
}

// AllRequests lists every request for review, optionally by status.
func (c *Client) AllRequests(ctx context.Context, status string) ([]models.LandlordView, error) {
	path := "/api/landlord/requests"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []models.LandlordView
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Request returns one request for review.
func (c *Client) Request(ctx context.Context, id string) (*models.LandlordView, error) {
	var out models.LandlordView
	if err := c.do(ctx, http.MethodGet, "/api/landlord/request/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Review actions accepted by Act.
const (
	ActReview   = "review"
	ActApprove  = "approve"
	ActReject   = "reject"
	ActMoreInfo = "more-info"
)

// Act applies a review action. text is the rejection reason or the
// information request; it is ignored by review and approve.
func (c *Client) Act(ctx context.Context, id, action, text string) (*models.LandlordView, error) {
	var body map[string]string
	switch action {
	case ActReject:
		body = map[string]string{"reason": text}
	case ActMoreInfo:
		body = map[string]string{"message": text}
	}
	var out models.LandlordView
	path := "/api/landlord/request/" + url.PathEscape(id) + "/" + action
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartIntake opens an intake draft for listingID.
func (c *Client) StartIntake(ctx context.Context, listingID string, initial map[string]any) (*service.IntakeState, error) {
	var out service.IntakeState
	body := map[string]any{"listingId": listingID, "initial": initial}
	if err := c.do(ctx, http.MethodPost, "/api/tenant/intake", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NextIntake submits the current step's answers and advances.
func (c *Client) NextIntake(ctx context.Context, id string, partial map[string]any) (*service.IntakeState, error) {
	var out service.IntakeState
	if err := c.do(ctx, http.MethodPost, "/api/tenant/intake/"+url.PathEscape(id)+"/next", partial, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BackIntake moves the draft one step back.
func (c *Client) BackIntake(ctx context.Context, id string) (*service.IntakeState, error) {
	var out service.IntakeState
	if err := c.do(ctx, http.MethodPost, "/api/tenant/intake/"+url.PathEscape(id)+"/back", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitIntake turns the draft into a verification request.
func (c *Client) SubmitIntake(ctx context.Context, id string) (*models.TenantView, error) {
	var out models.TenantView
	if err := c.do(ctx, http.MethodPost, "/api/tenant/intake/"+url.PathEscape(id)+"/submit", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscardIntake drops the draft.
func (c *Client) DiscardIntake(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tenant/intake/"+url.PathEscape(id), nil, nil)
}
