// Package guard decides whether a role-scoped screen may be shown for the
// current session. It steers navigation only; data access is scoped
// separately by the services.
package guard

import "github.com/atinyakov/RentVerify/internal/models"

// Outcome is the kind of decision.
type Outcome int

const (
	// Render shows the requested screen.
	Render Outcome = iota
	// RedirectLogin sends the user to the login screen.
	RedirectLogin
	// RedirectDashboard sends the user to their own role's dashboard.
	RedirectDashboard
	// RedirectHome sends the user to the home screen.
	RedirectHome
)

// Well-known locations.
const (
	LoginPath             = "/login"
	HomePath              = "/"
	TenantDashboardPath   = "/tenant/dashboard"
	LandlordDashboardPath = "/landlord/dashboard"
)

// Decision is the result of Decide.
type Decision struct {
	Outcome Outcome
	// Location is where to go; empty for Render.
	Location string
	// From is the originally requested location, set for RedirectLogin so
	// that login can return there.
	From string
}

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDashboard:
		return "redirect-dashboard"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Decide gates the screen at location requiring role required (empty for
// none) given the stored session token and role.
func Decide(token string, role models.Role, required models.Role, location string) Decision {
	if token == "" {
		return Decision{Outcome: RedirectLogin, Location: LoginPath, From: location}
	}
	if required == "" || role == required {
		return Decision{Outcome: Render}
	}
	if dash := Dashboard(role); dash != "" {
		return Decision{Outcome: RedirectDashboard, Location: dash}
	}
	return Decision{Outcome: RedirectHome, Location: HomePath}
}

// Dashboard returns the dashboard of role, or "" for an unknown role.
func Dashboard(role models.Role) string {
	switch role {
	case models.RoleTenant:
		return TenantDashboardPath
	case models.RoleLandlord:
		return LandlordDashboardPath
	}
	return ""
}
