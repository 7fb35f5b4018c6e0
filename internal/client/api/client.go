// Package api is the shell's HTTP client for the RentVerify server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/client/session"
	"github.com/atinyakov/RentVerify/internal/models"
)

// ErrSessionExpired is returned when the server rejects the stored token.
// The local session has been cleared by then.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int               `json:"-"`
	Message string            `json:"error"`
	Step    string            `json:"step,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// Client talks to the server on behalf of the stored session.
type Client struct {
	http    *http.Client
	baseURL string
	session *session.Store
	log     *zap.Logger
}

// New returns a client for baseURL. A nil httpClient uses http.DefaultClient.
func New(httpClient *http.Client, baseURL string, store *session.Store, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		session: store,
		log:     log,
	}
}

// Session returns the stored session.
func (c *Client) Session() models.Session {
	return c.session.Current()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, true)
}

// doPublic calls a route that needs no session. Its 401s never touch the
// stored session.
func (c *Client) doPublic(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, false)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, authed bool) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	var token string
	if authed {
		token = c.session.Current().Token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			if err := c.session.Clear(); err != nil {
				c.log.Warn("failed to clear session", zap.Error(err))
			}
			return fmt.Errorf("%w: %s", ErrSessionExpired, apiErr.Message)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type sessionResponse struct {
	Token string       `json:"token"`
	Role  models.Role  `json:"role"`
	User  *models.User `json:"user"`
}

// Login authenticates and stores the new session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp sessionResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doPublic(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return resp.User, c.store(resp)
}

// SignupInput is the signup form sent to the server.
type SignupInput struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirmPassword,omitempty"`
	Role            models.Role `json:"role"`
}

// Signup registers an account and stores the new session.
func (c *Client) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	var resp sessionResponse
	if err := c.doPublic(ctx, http.MethodPost, "/api/auth/signup", in, &resp); err != nil {
		return nil, err
	}
	return resp.User, c.store(resp)
}

func (c *Client) store(resp sessionResponse) error {
	sess := models.Session{Token: resp.Token, Role: resp.Role}
	if resp.User != nil {
		sess.UserID = resp.User.ID
	}
	return c.session.Set(sess)
}

// Logout revokes the token on the server and clears the local session
// even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if cerr := c.session.Clear(); cerr != nil {
		return cerr
	}
	if errors.Is(err, ErrSessionExpired) {
		return nil
	}
	return err
}

// CurrentSession asks the server whether the stored token is still live.
func (c *Client) CurrentSession(ctx context.Context) (*models.Session, error) {
	var sess models.Session
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Listings searches the catalog.
func (c *Client) Listings(ctx context.Context, search string, f models.ListingFilters) ([]models.Listing, error) {
	q := url.Values{}
	for k, v := range map[string]string{
		"search":    search,
		"minPrice":  f.MinPrice,
		"maxPrice":  f.MaxPrice,
		"bedrooms":  f.Bedrooms,
		"bathrooms": f.Bathrooms,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	path := "/api/listings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Listing
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Listing returns one listing.
func (c *Client) Listing(ctx context.Context, id string) (*models.Listing, error) {
	var out models.Listing
	if err := c.do(ctx, http.MethodGet, "/api/listings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile returns the caller's account.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends only the non-empty fields of patch.
func (c *Client) UpdateProfile(ctx context.Context, patch map[string]string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/api/profile", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
