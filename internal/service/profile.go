package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/repository"
	"github.com/atinyakov/RentVerify/internal/validate"
)

// ProfilePatch carries the editable profile fields. Nil fields are kept.
type ProfilePatch struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Bio     *string `json:"bio,omitempty"`
}

type profileForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,phone"`
	Address string `json:"address"`
	Bio     string `json:"bio"`
}

// ProfileService reads and edits the caller's own account.
type ProfileService struct {
	users    UserRepository
	validate *validator.Validate
}

// NewProfileService constructs a ProfileService.
func NewProfileService(users UserRepository) *ProfileService {
	return &ProfileService{users: users, validate: validate.New()}
}

// Get returns the account of userID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

// Update applies patch to the account of userID after validating the
// resulting profile.
func (s *ProfileService) Update(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	apply(&u.Name, patch.Name)
	apply(&u.Email, patch.Email)
	apply(&u.Phone, patch.Phone)
	apply(&u.Address, patch.Address)
	apply(&u.Bio, patch.Bio)
	u.Email = strings.ToLower(u.Email)

	form := profileForm{Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address, Bio: u.Bio}
	if err := validate.Struct(s.validate, form); err != nil {
		return nil, err
	}

	if err := s.users.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}
