package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/middleware"
	"github.com/atinyakov/RentVerify/internal/models"
	"github.com/atinyakov/RentVerify/internal/repository"
	"github.com/atinyakov/RentVerify/internal/service"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()
	users, err := repository.SeedUsers()
	require.NoError(t, err)

	userRepo := repository.NewMemoryUserRepository(repository.Latency{}, users...)
	requestRepo := repository.NewMemoryRequestRepository(repository.Latency{}, repository.SeedRequests()...)
	catalog := repository.NewListingCatalog(repository.Latency{}, repository.DefaultListings()...)

	log := zap.NewNop()
	auth := service.NewAuthService(userRepo, service.NewJWTService("test-secret"), service.NewSessionStore())
	requests := service.NewRequestService(requestRepo)

	h := Handlers{
		Auth:     &AuthHandler{AuthService: auth, Log: log},
		Listings: &ListingHandler{ListingService: service.NewListingService(catalog), Log: log},
		Profile:  &ProfileHandler{ProfileService: service.NewProfileService(userRepo), Log: log},
		Requests: &RequestHandler{RequestService: requests, Log: log},
		Intake:   &IntakeHandler{IntakeService: service.NewIntakeService(requests, catalog, log), Log: log},
	}
	return &testServer{t: t, handler: NewRouter(h, auth, limiter, log)}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	rec := s.do("POST", "/api/auth/login", "", LoginRequest{Email: email, Password: repository.SeedPassword})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp SessionResponse
	require.NoError(s.t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do("POST", "/api/auth/login", "", LoginRequest{Email: "tenant@example.com", Password: repository.SeedPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[SessionResponse](t, rec)
	assert.Equal(t, models.RoleTenant, resp.Role)
	assert.Equal(t, "tenant-1", resp.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	tests := []struct {
		name string
		body any
		code int
	}{
		{name: "wrong password", body: LoginRequest{Email: "tenant@example.com", Password: "nope"}, code: http.StatusUnauthorized},
		{name: "missing fields", body: LoginRequest{Email: "tenant@example.com"}, code: http.StatusBadRequest},
		{name: "bad json", body: "{not json", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do("POST", "/api/auth/login", "", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	s := newTestServer(t, middleware.NewRateLimiter(time.Minute, 1))
	first := s.do("POST", "/api/auth/login", "", LoginRequest{Email: "tenant@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, first.Code)
	second := s.do("POST", "/api/auth/login", "", LoginRequest{Email: "tenant@example.com", Password: repository.SeedPassword})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestSignup(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do("POST", "/api/auth/signup", "", service.SignupInput{
		Name: "Neha", Email: "neha@example.com", Phone: "+91 9876512345",
		Password: "supersecret", ConfirmPassword: "supersecret", Role: models.RoleLandlord,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[SessionResponse](t, rec)
	assert.Equal(t, models.RoleLandlord, resp.Role)

	rec = s.do("POST", "/api/auth/signup", "", service.SignupInput{Email: "bad", Role: "admin"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "role")

	rec = s.do("POST", "/api/auth/signup", "", service.SignupInput{
		Name: "Dup", Email: "tenant@example.com", Phone: "+91 9876512345",
		Password: "supersecret", Role: models.RoleTenant,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSessionAndLogout(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login("tenant@example.com")

	rec := s.do("GET", "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sess := decode[models.Session](t, rec)
	assert.Equal(t, models.RoleTenant, sess.Role)

	rec = s.do("POST", "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do("GET", "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do("GET", "/api/tenant/requests", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListings(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do("GET", "/api/listings?minPrice=20000&maxPrice=30000", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listings := decode[[]models.Listing](t, rec)
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"1", "6"}, ids)

	rec = s.do("GET", "/api/listings?bedrooms=two", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do("GET", "/api/listings/3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", decode[models.Listing](t, rec).ID)

	rec = s.do("GET", "/api/listings/42", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "listing not found", decode[errorResponse](t, rec).Error)
}

func TestRoleGuard(t *testing.T) {
	s := newTestServer(t, nil)
	tenant := s.login("tenant@example.com")
	landlord := s.login("landlord@example.com")

	rec := s.do("GET", "/api/landlord/requests", tenant, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/tenant/dashboard"`)

	rec = s.do("GET", "/api/tenant/requests", landlord, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/landlord/dashboard"`)

	rec = s.do("GET", "/api/tenant/requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantRequests(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login("tenant@example.com")

	rec := s.do("GET", "/api/tenant/requests", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]models.TenantView](t, rec)
	require.Len(t, mine, 2)
	assert.NotContains(t, rec.Body.String(), "employment")

	rec = s.do("GET", "/api/tenant/request/req-3", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do("POST", "/api/tenant/request", token, models.RequestInput{ListingID: "2", PropertyName: "Villa"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.TenantView](t, rec)
	assert.Equal(t, models.StatusSubmitted, created.Status)

	rec = s.do("PUT", "/api/tenant/request/"+created.ID, token, map[string]string{"notes": "pets: none"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pets: none", decode[models.TenantView](t, rec).Notes)
}

func TestLandlordReviewFlow(t *testing.T) {
	s := newTestServer(t, nil)
	tenant := s.login("tenant@example.com")
	landlord := s.login("landlord@example.com")

	rec := s.do("GET", "/api/landlord/requests?status=submitted", landlord, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	submitted := decode[[]models.LandlordView](t, rec)
	require.Len(t, submitted, 1)
	assert.Equal(t, "req-1", submitted[0].ID)
	assert.Equal(t, "Tech Corp", submitted[0].Employment.EmployerName)

	rec = s.do("GET", "/api/landlord/requests?status=archived", landlord, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do("PUT", "/api/landlord/request/req-1/reject", landlord, ReviewRequest{Reason: "X"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do("PUT", "/api/landlord/request/req-1/more-info", landlord, ReviewRequest{Message: "Y"})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[models.LandlordView](t, rec)
	assert.Equal(t, models.StatusMoreInfoRequired, view.Status)
	assert.Contains(t, view.Notes, "Rejection reason: X")
	assert.Contains(t, view.Notes, "Additional info requested: Y")

	rec = s.do("PUT", "/api/landlord/request/req-1/approve", landlord, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do("GET", "/api/tenant/request/req-1", tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusApproved, decode[models.TenantView](t, rec).Status)

	rec = s.do("PUT", "/api/landlord/request/missing/review", landlord, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRemovesFromLandlordView(t *testing.T) {
	s := newTestServer(t, nil)
	tenant := s.login("tenant@example.com")
	landlord := s.login("landlord@example.com")

	rec := s.do("DELETE", "/api/tenant/request/req-2", tenant, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do("GET", "/api/landlord/request/req-2", landlord, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login("priya@example.com")

	rec := s.do("GET", "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Priya Patel", decode[models.User](t, rec).Name)

	rec = s.do("PUT", "/api/profile", token, map[string]string{"bio": "Designer"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Designer", decode[models.User](t, rec).Bio)

	rec = s.do("PUT", "/api/profile", token, map[string]string{"phone": "abc"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestIntakeFlow(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login("tenant@example.com")

	rec := s.do("POST", "/api/tenant/intake", token, StartIntakeRequest{ListingID: "3"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	st := decode[service.IntakeState](t, rec)
	path := "/api/tenant/intake/" + st.ID

	rec = s.do("POST", path+"/submit", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do("POST", path+"/next", token, map[string]any{"name": "Rahul"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	failure := decode[intakeFailure](t, rec)
	assert.Equal(t, "basic-info", failure.Step)
	assert.Contains(t, failure.Fields, "phone")
	assert.Equal(t, 0, failure.State.Cursor)

	parts := []map[string]any{
		{"name": "Rahul Sharma", "email": "rahul@example.com", "phone": "+91 9876543220", "address": "12 Lake Road", "moveInDate": "2099-01-01"},
		{"employerName": "Tech Corp", "jobTitle": "Engineer", "monthlyIncome": 90000, "employmentType": "contract"},
		{"idProof": "https://files.example.com/id.pdf", "payslip": "https://files.example.com/payslip.pdf"},
		{"reference1Name": "Amit", "reference1Phone": "9876500001", "reference1Email": "amit@example.com", "consent": true},
	}
	for _, part := range parts {
		rec = s.do("POST", path+"/next", token, part)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = s.do("POST", path+"/back", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[service.IntakeState](t, rec).Cursor)
	rec = s.do("POST", path+"/next", token, map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do("POST", path+"/submit", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.TenantView](t, rec)
	assert.Equal(t, "3", created.ListingID)
	assert.Equal(t, models.StatusSubmitted, created.Status)

	rec = s.do("GET", path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
