package service

import (
	"errors"

	"github.com/atinyakov/RentVerify/internal/repository"
)

var (
	// ErrRequestNotFound is returned when a request id is unknown or not
	// visible to the caller.
	ErrRequestNotFound = errors.New("request not found")
	// ErrListingNotFound is returned for an unknown listing id.
	ErrListingNotFound = errors.New("listing not found")
	// ErrInvalidStatus is returned for a status filter outside the status enum.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidFilter is returned for a non-numeric listing filter.
	ErrInvalidFilter = errors.New("invalid listing filter")
	// ErrInvalidCredentials is returned when login does not match an account.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned for a missing, malformed or revoked token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrDraftNotFound is returned for an unknown or foreign intake draft.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrUserNotFound is returned when a profile owner no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// notFound translates a repository miss into the given domain error.
func notFound(err, domain error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain
	}
	return err
}
