package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPhone(t *testing.T) {
	cases := map[string]bool{
		"+91 9876543210": true,
		"+91-9876543210": true,
		"+919876543210":  true,
		"9876543210":     true,
		"5876543210":     false,
		"98765":          false,
		"+1 9876543210":  false,
		"":               false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsPhone(in), in)
	}
}

type signup struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=tenant landlord"`
	MoveIn   string `json:"moveInDate" validate:"omitempty,notpast"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { Now = time.Now })

	v := New()
	err := Struct(v, signup{Email: "nope", Phone: "123", Password: "short", Role: "admin", MoveIn: "2024-05-31"})
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "This field is required", fe["name"])
	assert.Equal(t, "Please enter a valid email address", fe["email"])
	assert.Equal(t, "Please enter a valid phone number (e.g., +91 9876543210)", fe["phone"])
	assert.Equal(t, "Password must be at least 8 characters", fe["password"])
	assert.Equal(t, "Please select a role", fe["role"])
	assert.Equal(t, "Move-in date must be today or later", fe["moveInDate"])
}

func TestStruct_Valid(t *testing.T) {
	Now = func() time.Time { return time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { Now = time.Now })

	err := Struct(New(), signup{Name: "A", Email: "a@example.com", Phone: "9876543210", Password: "password123", Role: "tenant", MoveIn: "2024-06-01"})
	assert.NoError(t, err)
}

func TestFieldErrors_ErrorIsSorted(t *testing.T) {
	err := FieldErrors{"b": "two", "a": "one"}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
}
