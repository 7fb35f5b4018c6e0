package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/RentVerify/internal/models"
)

// dummyHandler records whether it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

// fakeResolver implements SessionResolver for testing.
type fakeResolver struct {
	sessions  map[string]*models.Session
	loggedOut []string
}

func (f *fakeResolver) CurrentSession(_ context.Context, token string) (*models.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, errors.New("unauthorized")
}

func (f *fakeResolver) Logout(_ context.Context, token string) {
	f.loggedOut = append(f.loggedOut, token)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return body
}

func TestSessionAuth(t *testing.T) {
	tenant := &models.Session{Token: "good", Role: models.RoleTenant, UserID: "tenant-1"}

	tests := []struct {
		name        string
		header      string
		wantCode    int
		wantError   string
		wantLogout  bool
		wantSession bool
	}{
		{name: "missing header", wantCode: http.StatusUnauthorized, wantError: "missing authorization header"},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized, wantError: "invalid authorization header format"},
		{name: "empty token", header: "Bearer  ", wantCode: http.StatusUnauthorized, wantError: "missing token"},
		{name: "revoked token", header: "Bearer stale", wantCode: http.StatusUnauthorized, wantError: "invalid or expired token", wantLogout: true},
		{name: "valid token", header: "Bearer good", wantCode: http.StatusOK, wantSession: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{sessions: map[string]*models.Session{"good": tenant}}
			dummy := &dummyHandler{}
			h := SessionAuth(resolver)(dummy)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantError != "" {
				if body := decodeBody(t, rec); body["error"] != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, body["error"])
				}
			}
			if tt.wantLogout != (len(resolver.loggedOut) == 1) {
				t.Errorf("unexpected logout calls %v", resolver.loggedOut)
			}
			if dummy.called != tt.wantSession {
				t.Fatalf("next called = %v; want %v", dummy.called, tt.wantSession)
			}
			if tt.wantSession {
				sess, ok := GetSession(dummy.ctx)
				if !ok || sess.UserID != "tenant-1" {
					t.Errorf("expected tenant-1 session in context, got %+v", sess)
				}
				if GetToken(dummy.ctx) != "good" {
					t.Errorf("expected token in context, got %q", GetToken(dummy.ctx))
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name         string
		session      *models.Session
		wantCode     int
		wantRedirect string
		wantFrom     string
	}{
		{name: "no session", wantCode: http.StatusUnauthorized, wantRedirect: "/login", wantFrom: "/api/tenant/requests"},
		{name: "landlord", session: &models.Session{Token: "t1", Role: models.RoleLandlord}, wantCode: http.StatusForbidden, wantRedirect: "/landlord/dashboard"},
		{name: "unknown role", session: &models.Session{Token: "t1", Role: "admin"}, wantCode: http.StatusForbidden, wantRedirect: "/"},
		{name: "tenant", session: &models.Session{Token: "t1", Role: models.RoleTenant}, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			h := RequireRole(models.RoleTenant)(dummy)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/tenant/requests", nil)
			if tt.session != nil {
				req = req.WithContext(WithSession(req.Context(), tt.session))
			}
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode == http.StatusOK {
				if !dummy.called {
					t.Error("expected next handler to be called")
				}
				return
			}
			if dummy.called {
				t.Error("did not expect next handler to be called")
			}
			body := decodeBody(t, rec)
			if body["redirect"] != tt.wantRedirect {
				t.Errorf("expected redirect %q, got %q", tt.wantRedirect, body["redirect"])
			}
			if body["from"] != tt.wantFrom {
				t.Errorf("expected from %q, got %q", tt.wantFrom, body["from"])
			}
		})
	}
}

func TestGetSession_Empty(t *testing.T) {
	if _, ok := GetSession(context.Background()); ok {
		t.Error("expected no session in empty context")
	}
	if tok := GetToken(context.Background()); tok != "" {
		t.Errorf("expected empty token, got %q", tok)
	}
}
