package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/RentVerify/internal/service"
	"github.com/atinyakov/RentVerify/internal/validate"
)

func strPtr(s string) *string { return &s }

func TestProfileService_GetAndUpdate(t *testing.T) {
	svc := service.NewProfileService(newSeededUsers(t))
	ctx := context.Background()

	u, err := svc.Get(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "Rahul Sharma", u.Name)

	updated, err := svc.Update(ctx, "tenant-1", service.ProfilePatch{
		Address: strPtr(" 12 Lake Road "),
		Bio:     strPtr("Quiet tenant"),
	})
	require.NoError(t, err)
	assert.Equal(t, "12 Lake Road", updated.Address)
	assert.Equal(t, "Quiet tenant", updated.Bio)
	assert.Equal(t, "Rahul Sharma", updated.Name)

	again, err := svc.Get(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "12 Lake Road", again.Address)
}

func TestProfileService_UpdateValidation(t *testing.T) {
	svc := service.NewProfileService(newSeededUsers(t))

	_, err := svc.Update(context.Background(), "tenant-1", service.ProfilePatch{Email: strPtr("broken"), Name: strPtr("")})
	var fields validate.FieldErrors
	require.True(t, errors.As(err, &fields), "expected field errors, got %v", err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
}

func TestProfileService_EmailTaken(t *testing.T) {
	svc := service.NewProfileService(newSeededUsers(t))
	_, err := svc.Update(context.Background(), "tenant-1", service.ProfilePatch{Email: strPtr("Priya@Example.com")})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestProfileService_UnknownUser(t *testing.T) {
	svc := service.NewProfileService(newSeededUsers(t))
	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
