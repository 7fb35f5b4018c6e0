package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/stepper"
)

// StepState describes one intake step for display.
type StepState struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Complete bool     `json:"complete"`
	Fields   []string `json:"fields"`
}

// IntakeState is a snapshot of a tenant's intake draft.
type IntakeState struct {
	ID         string         `json:"id"`
	ListingID  string         `json:"listingId"`
	Cursor     int            `json:"cursor"`
	Steps      []StepState    `json:"steps"`
	Draft      map[string]any `json:"draft"`
	Submitting bool           `json:"submitting"`
}

type intakeDraft struct {
	tenantID string
	listing  models.Listing
	ctl      *stepper.Controller
}

// IntakeService keeps in-progress tenant intakes in memory and turns a
// completed intake into a verification request. Drafts are never
// persisted and vanish on submit, discard or restart.
type IntakeService struct {
	mu       sync.Mutex
	drafts   map[string]*intakeDraft
	requests *RequestService
	listings ListingRepository
	log      *zap.Logger
}

// NewIntakeService constructs an IntakeService.
func NewIntakeService(requests *RequestService, listings ListingRepository, log *zap.Logger) *IntakeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IntakeService{
		drafts:   make(map[string]*intakeDraft),
		requests: requests,
		listings: listings,
		log:      log,
	}
}

// Start opens a new intake for listingID, optionally prefilled.
func (s *IntakeService) Start(ctx context.Context, tenantID, listingID string, initial map[string]any) (*IntakeState, error) {
	l, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return nil, notFound(err, ErrListingNotFound)
	}

	id := "draft-" + uuid.NewString()
	d := &intakeDraft{
		tenantID: tenantID,
		listing:  *l,
		ctl:      stepper.New(stepper.TenantIntakeSteps(), initial, s.log.With(zap.String("draft", id))),
	}

	s.mu.Lock()
	s.drafts[id] = d
	s.mu.Unlock()

	return snapshot(id, d), nil
}

// Get returns the current state of a draft owned by tenantID.
func (s *IntakeService) Get(tenantID, id string) (*IntakeState, error) {
	d, err := s.lookup(tenantID, id)
	if err != nil {
		return nil, err
	}
	return snapshot(id, d), nil
}

// Next merges partial into the draft and advances. On a validation
// failure the unchanged state is returned alongside a *stepper.ValidationError.
func (s *IntakeService) Next(tenantID, id string, partial map[string]any) (*IntakeState, error) {
	d, err := s.lookup(tenantID, id)
	if err != nil {
		return nil, err
	}
	err = d.ctl.Advance(partial)
	return snapshot(id, d), err
}

// Back moves the draft one step back.
func (s *IntakeService) Back(tenantID, id string) (*IntakeState, error) {
	d, err := s.lookup(tenantID, id)
	if err != nil {
		return nil, err
	}
	d.ctl.Retreat()
	return snapshot(id, d), nil
}

// Submit creates the verification request from a draft on its last step
// and discards the draft. On failure the draft stays for a retry.
func (s *IntakeService) Submit(ctx context.Context, tenantID, id string) (*models.VerificationRequest, error) {
	d, err := s.lookup(tenantID, id)
	if err != nil {
		return nil, err
	}

	var created *models.VerificationRequest
	err = d.ctl.Submit(ctx, func(ctx context.Context, draft map[string]any) error {
		req, err := s.requests.CreateRequest(ctx, tenantID, IntakeToRequest(draft, d.listing))
		if err != nil {
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return created, nil
}

// Discard drops a draft.
func (s *IntakeService) Discard(tenantID, id string) error {
	if _, err := s.lookup(tenantID, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return nil
}

func (s *IntakeService) lookup(tenantID, id string) (*intakeDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok || d.tenantID != tenantID {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func snapshot(id string, d *intakeDraft) *IntakeState {
	steps := d.ctl.Steps()
	out := &IntakeState{
		ID:         id,
		ListingID:  d.listing.ID,
		Cursor:     d.ctl.Cursor(),
		Draft:      d.ctl.Draft(),
		Submitting: d.ctl.Submitting(),
		Steps:      make([]StepState, len(steps)),
	}
	for i, st := range steps {
		names := make([]string, len(st.Fields))
		for j, f := range st.Fields {
			names[j] = f.Name
		}
		out.Steps[i] = StepState{ID: st.ID, Label: st.Label, Complete: d.ctl.IsComplete(i), Fields: names}
	}
	return out
}

// IntakeToRequest maps a completed intake draft for listing onto a
// request payload.
func IntakeToRequest(draft map[string]any, listing models.Listing) models.RequestInput {
	str := func(k string) string {
		if v, ok := draft[k]; ok && v != nil {
			return strings.TrimSpace(fmt.Sprint(v))
		}
		return ""
	}

	in := models.RequestInput{
		ListingID:    listing.ID,
		PropertyName: listing.Title,
		Address:      listing.Address,
		TenantName:   str("name"),
		TenantEmail:  str("email"),
		TenantPhone:  str("phone"),
		MoveInDate:   str("moveInDate"),
		Employment: models.Employment{
			EmployerName:   str("employerName"),
			JobTitle:       str("jobTitle"),
			EmploymentType: str("employmentType"),
		},
		References: []models.Reference{
			{Name: str("reference1Name"), Phone: str("reference1Phone"), Email: str("reference1Email")},
		},
		Documents: []models.Document{
			{Name: "ID Proof", URL: str("idProof")},
			{Name: "Payslip", URL: str("payslip")},
		},
	}
	if income, ok := draft["monthlyIncome"].(float64); ok {
		in.Employment.MonthlyIncome = income
	}
	if name := str("reference2Name"); name != "" {
		in.References = append(in.References, models.Reference{Name: name, Phone: str("reference2Phone"), Email: str("reference2Email")})
	}
	if extra, ok := draft["additionalDocuments"].([]string); ok {
		for i, url := range extra {
			in.Documents = append(in.Documents, models.Document{Name: fmt.Sprintf("Additional Document %d", i+1), URL: url})
		}
	}
	if addr := str("address"); addr != "" {
		in.Notes = "Current address: " + addr
	}
	return in
}
