// Package models defines the core data structures for users, sessions,
// verification requests and property listings.
package models

import "time"

// Role tags a user as either side of a verification.
type Role string

const (
	// RoleTenant submits verification requests.
	RoleTenant Role = "tenant"
	// RoleLandlord reviews verification requests.
	RoleLandlord Role = "landlord"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleTenant || r == RoleLandlord
}

// User represents an application account.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Email is the login identifier, unique across users.
	Email string `json:"email"`
	// Phone is the contact number.
	Phone string `json:"phone"`
	// Role decides which dashboard the user lands on.
	Role Role `json:"role"`
	// PasswordHash is the bcrypt hash of the password.
	PasswordHash []byte `json:"-"`
	// Address is an optional postal address.
	Address string `json:"address,omitempty"`
	// Bio is an optional free-text description.
	Bio string `json:"bio,omitempty"`
	// CreatedAt is set once when the account is created.
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the token and role pair representing "is logged in as".
type Session struct {
	Token  string `json:"token"`
	Role   Role   `json:"role"`
	UserID string `json:"userId,omitempty"`
}
