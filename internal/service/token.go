package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atinyakov/RentVerify/internal/models"
)

// JWTClaims are the claims of a session token. Tokens carry no expiry;
// they live until logout revokes their ID.
type JWTClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 session tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// SignToken issues a token for userID with role and returns it with its
// unique token ID.
func (s *JWTService) SignToken(userID string, role models.Role) (string, string, error) {
	jti := uuid.NewString()
	claims := &JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			ID:       jti,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, jti, nil
}

// VerifyToken verifies and parses a JWT token
func (s *JWTService) VerifyToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// SessionStore tracks the active sessions by token ID.
type SessionStore struct {
	mu     sync.RWMutex
	active map[string]models.Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{active: make(map[string]models.Session)}
}

// Add records an active session.
func (s *SessionStore) Add(jti string, sess models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[jti] = sess
}

// Get returns the session for jti if it is still active.
func (s *SessionStore) Get(jti string) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.active[jti]
	return sess, ok
}

// Remove ends the session. Removing an unknown id is a no-op.
func (s *SessionStore) Remove(jti string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, jti)
}

// Len returns the number of active sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}
