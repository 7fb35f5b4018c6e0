package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/repository"
	"github.com/atinyakov/RentVerify/internal/validate"
)

// UserRepository defines the persistence operations
// required by the authentication and profile services.
type UserRepository interface {
	// CreateUser stores a new account; a taken email yields repository.ErrDuplicate.
	CreateUser(ctx context.Context, u *models.User) error
	// GetUserByEmail looks an account up by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID looks an account up by id.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdateUser writes the editable fields of u.
	UpdateUser(ctx context.Context, u *models.User) error
}

// SignupInput is the signup form.
type SignupInput struct {
	Name            string      `json:"name" validate:"required"`
	Email           string      `json:"email" validate:"required,email"`
	Phone           string      `json:"phone" validate:"required,phone"`
	Password        string      `json:"password" validate:"required,min=8"`
	ConfirmPassword string      `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Role            models.Role `json:"role" validate:"required,oneof=tenant landlord"`
}

// AuthService implements login, signup and session lifecycle.
type AuthService struct {
	users    UserRepository
	tokens   *JWTService
	sessions *SessionStore
	validate *validator.Validate
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users UserRepository, tokens *JWTService, sessions *SessionStore) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		validate: validate.New(),
	}
}

// Login checks the credentials and opens a session. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, *models.User, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.open(u)
	if err != nil {
		return nil, nil, err
	}
	return sess, u, nil
}

// Signup registers a new account and opens a session for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.Session, *models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(s.validate, in); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		ID:           "user-" + uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         in.Role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	sess, err := s.open(u)
	if err != nil {
		return nil, nil, err
	}
	return sess, u, nil
}

// Logout revokes the session behind token. Unknown or malformed tokens
// are ignored.
func (s *AuthService) Logout(_ context.Context, token string) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return
	}
	s.sessions.Remove(claims.ID)
}

// CurrentSession resolves token to its active session.
func (s *AuthService) CurrentSession(_ context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	sess, ok := s.sessions.Get(claims.ID)
	if !ok {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthorized)
	}
	return &sess, nil
}

func (s *AuthService) open(u *models.User) (*models.Session, error) {
	token, jti, err := s.tokens.SignToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	sess := models.Session{Token: token, Role: u.Role, UserID: u.ID}
	s.sessions.Add(jti, sess)
	return &sess, nil
}
