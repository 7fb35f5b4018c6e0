// Package middleware provides HTTP middlewares for session authentication,
// role gating, rate limiting and request logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/atinyakov/RentVerify/internal/guard"
	"github.com/atinyakov/RentVerify/internal/models"
)

type ctxKey string

const (
	sessionKey ctxKey = "session"
	tokenKey   ctxKey = "token"
)

// SessionResolver resolves bearer tokens to sessions.
type SessionResolver interface {
	// CurrentSession returns the active session behind token.
	CurrentSession(ctx context.Context, token string) (*models.Session, error)
	// Logout drops the session behind token.
	Logout(ctx context.Context, token string)
}

// SessionAuth validates the bearer token and attaches the session to the
// request context. A token that no longer resolves is dropped and the
// request is answered with 401.
func SessionAuth(auth SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token := strings.TrimSpace(parts[1])
			if token == "" {
				respondWithError(w, http.StatusUnauthorized, "missing token")
				return
			}

			sess, err := auth.CurrentSession(r.Context(), token)
			if err != nil {
				auth.Logout(r.Context(), token)
				respondWithError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the session's role is
// role. Otherwise it answers 401 or 403 with the location a client
// should navigate to.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				token  string
				actual models.Role
			)
			if sess, ok := GetSession(r.Context()); ok {
				token, actual = sess.Token, sess.Role
			}

			d := guard.Decide(token, actual, role, r.URL.Path)
			switch d.Outcome {
			case guard.Render:
				next.ServeHTTP(w, r)
			case guard.RedirectLogin:
				respondJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "authentication required",
					"redirect": d.Location,
					"from":     d.From,
				})
			default:
				respondJSON(w, http.StatusForbidden, map[string]string{
					"error":    "forbidden for role " + string(actual),
					"redirect": d.Location,
				})
			}
		})
	}
}

// GetSession returns the session attached by SessionAuth.
func GetSession(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*models.Session)
	return s, ok
}

// GetToken returns the bearer token accepted by SessionAuth.
func GetToken(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey).(string); ok {
		return t
	}
	return ""
}

// WithSession returns a copy of ctx carrying sess, as SessionAuth would.
func WithSession(ctx context.Context, sess *models.Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey, sess)
	return context.WithValue(ctx, tokenKey, sess.Token)
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
