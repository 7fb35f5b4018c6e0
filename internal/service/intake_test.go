package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/repository"
	"github.com/atinyakov/RentVerify/internal/service"
	"github.com/atinyakov/RentVerify/internal/stepper"
)

func intakeParts() []map[string]any {
	return []map[string]any{
		{"name": "Rahul Sharma", "email": "rahul@example.com", "phone": "+91 9876543220", "address": "12 Lake Road", "moveInDate": "2099-01-01"},
		{"employerName": "Tech Corp", "jobTitle": "Engineer", "monthlyIncome": "120000", "employmentType": "full-time"},
		{"idProof": "https://files.example.com/id.pdf", "payslip": "https://files.example.com/payslip.pdf", "additionalDocuments": "a.pdf"},
		{"reference1Name": "Amit", "reference1Phone": "9876500001", "reference1Email": "amit@example.com", "consent": true},
	}
}

func newIntake(t *testing.T) (*service.IntakeService, *service.RequestService) {
	t.Helper()
	requests := service.NewRequestService(repository.NewMemoryRequestRepository(repository.Latency{}))
	listings := repository.NewListingCatalog(repository.Latency{}, repository.DefaultListings()...)
	return service.NewIntakeService(requests, listings, nil), requests
}

func TestIntakeService_SubmitCreatesRequest(t *testing.T) {
	intake, requests := newIntake(t)
	ctx := context.Background()

	st, err := intake.Start(ctx, "tenant-1", "6", nil)
	require.NoError(t, err)
	assert.Equal(t, "6", st.ListingID)
	require.Len(t, st.Steps, 4)
	assert.Equal(t, stepper.StepBasicInfo, st.Steps[0].ID)

	for _, part := range intakeParts() {
		st, err = intake.Next("tenant-1", st.ID, part)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, st.Cursor)
	for _, step := range st.Steps {
		assert.True(t, step.Complete, "step %s", step.ID)
	}

	req, err := intake.Submit(ctx, "tenant-1", st.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, req.Status)
	assert.Equal(t, "Modern 2BHK with Balcony", req.PropertyName)
	assert.Equal(t, float64(120000), req.Employment.MonthlyIncome)
	assert.Equal(t, "Current address: 12 Lake Road", req.Notes)
	require.Len(t, req.Documents, 3)
	assert.Equal(t, "Additional Document 1", req.Documents[2].Name)

	mine, err := requests.ListTenantRequests(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = intake.Get("tenant-1", st.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}

func TestIntakeService_ValidationKeepsStep(t *testing.T) {
	intake, _ := newIntake(t)

	st, err := intake.Start(context.Background(), "tenant-1", "1", nil)
	require.NoError(t, err)

	st, err = intake.Next("tenant-1", st.ID, map[string]any{"name": "Rahul"})
	var verr *stepper.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Equal(t, stepper.StepBasicInfo, verr.StepID)
	assert.Contains(t, verr.Fields, "email")
	assert.Equal(t, 0, st.Cursor)
	assert.False(t, st.Steps[0].Complete)
}

func TestIntakeService_SubmitBeforeLastStep(t *testing.T) {
	intake, _ := newIntake(t)

	st, err := intake.Start(context.Background(), "tenant-1", "1", nil)
	require.NoError(t, err)
	_, err = intake.Submit(context.Background(), "tenant-1", st.ID)
	assert.ErrorIs(t, err, stepper.ErrNotAtLastStep)
}

func TestIntakeService_BackAndDiscard(t *testing.T) {
	intake, _ := newIntake(t)
	ctx := context.Background()

	st, err := intake.Start(ctx, "tenant-1", "1", nil)
	require.NoError(t, err)
	st, err = intake.Next("tenant-1", st.ID, intakeParts()[0])
	require.NoError(t, err)
	assert.Equal(t, 1, st.Cursor)

	st, err = intake.Back("tenant-1", st.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Cursor)
	assert.True(t, st.Steps[0].Complete)
	assert.Equal(t, "Rahul Sharma", st.Draft["name"])

	assert.ErrorIs(t, intake.Discard("tenant-2", st.ID), service.ErrDraftNotFound)
	require.NoError(t, intake.Discard("tenant-1", st.ID))
	_, err = intake.Get("tenant-1", st.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}

func TestIntakeService_DraftsAreScopedToTenant(t *testing.T) {
	intake, _ := newIntake(t)

	st, err := intake.Start(context.Background(), "tenant-1", "1", nil)
	require.NoError(t, err)

	_, err = intake.Get("tenant-2", st.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
	_, err = intake.Next("tenant-2", st.ID, intakeParts()[0])
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}

func TestIntakeService_UnknownListing(t *testing.T) {
	intake, _ := newIntake(t)
	_, err := intake.Start(context.Background(), "tenant-1", "99", nil)
	assert.ErrorIs(t, err, service.ErrListingNotFound)
}

func TestIntakeToRequest_SecondReference(t *testing.T) {
	draft := map[string]any{
		"reference1Name":  "Amit",
		"reference2Name":  "Sara",
		"reference2Phone": "9876500002",
		"reference2Email": "sara@example.com",
	}
	in := service.IntakeToRequest(draft, models.Listing{ID: "1", Title: "Flat", Address: "Main St"})
	require.Len(t, in.References, 2)
	assert.Equal(t, "Sara", in.References[1].Name)
	assert.Equal(t, "Flat", in.PropertyName)
	assert.Empty(t, in.Notes)
}
