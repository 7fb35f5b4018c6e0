// Package validate configures go-playground/validator with the rules used
// by signup, profile and intake forms, and renders failures as per-field
// messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// phoneRe accepts Indian mobile numbers with an optional +91 prefix:
// +91 9876543210, +91-9876543210, +919876543210, 9876543210.
var phoneRe = regexp.MustCompile(`^(\+91[\s-]?)?[6-9]\d{9}$`)

// Now is the clock used by the notpast rule.
var Now = time.Now

// FieldErrors maps a field name to a human-readable failure message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// New returns a validator with the custom phone, notpast and accepted rules and
// JSON field names in errors.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("phone", isPhone)
	_ = v.RegisterValidation("notpast", isNotPast)
	_ = v.RegisterValidation("accepted", isAccepted)
	return v
}

// IsPhone reports whether s is an accepted phone number.
func IsPhone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

func isPhone(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String && IsPhone(fl.Field().String())
}

// isAccepted requires a boolean true, as for consent checkboxes.
func isAccepted(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
}

// isNotPast accepts a DateLayout date that is today or later.
func isNotPast(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	d, err := time.Parse(DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	now := Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(today)
}

// Struct validates s and returns FieldErrors keyed by JSON field name,
// or nil.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range ves {
		out[fe.Field()] = Message(fe.Field(), fe)
	}
	return out
}

// Message renders fe for the named field.
func Message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with":
		return "This field is required"
	case "email":
		return "Please enter a valid email address"
	case "phone":
		return "Please enter a valid phone number (e.g., +91 9876543210)"
	case "notpast":
		return "Move-in date must be today or later"
	case "min":
		if field == "password" {
			return "Password must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param() + " characters"
	case "gt":
		if field == "monthlyIncome" {
			return "Monthly income must be positive"
		}
		return "Must be greater than " + fe.Param()
	case "oneof":
		switch field {
		case "role":
			return "Please select a role"
		case "employmentType":
			return "Please select employment type"
		}
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eqfield":
		return "Passwords do not match"
	case "accepted":
		if field == "consent" {
			return "You must provide consent"
		}
		return "You must accept the terms and conditions"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
