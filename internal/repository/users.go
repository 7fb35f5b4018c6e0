package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/atinyakov/RentVerify/internal/models"
)

// MemoryUserRepository keeps accounts in process memory, indexed by id and
// by lower-cased email.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	latency Latency
}

// NewMemoryUserRepository creates a repository preloaded with users.
func NewMemoryUserRepository(latency Latency, users ...models.User) *MemoryUserRepository {
	m := &MemoryUserRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		latency: latency,
	}
	for _, u := range users {
		u := u
		m.byID[u.ID] = &u
		m.byEmail[strings.ToLower(u.Email)] = u.ID
	}
	return m
}

// CreateUser stores u. Email addresses are unique regardless of case.
func (m *MemoryUserRepository) CreateUser(ctx context.Context, u *models.User) error {
	if err := wait(ctx, m.latency.Write); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := m.byEmail[key]; ok {
		return ErrDuplicate
	}
	if _, ok := m.byID[u.ID]; ok {
		return ErrDuplicate
	}
	c := *u
	m.byID[u.ID] = &c
	m.byEmail[key] = u.ID
	return nil
}

// GetUserByEmail looks an account up by email.
func (m *MemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := wait(ctx, m.latency.Read); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	c := *m.byID[id]
	return &c, nil
}

// GetUserByID looks an account up by id.
func (m *MemoryUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := wait(ctx, m.latency.Read); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

// UpdateUser replaces the stored account with u.
func (m *MemoryUserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	if err := wait(ctx, m.latency.Write); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	newKey := strings.ToLower(u.Email)
	oldKey := strings.ToLower(old.Email)
	if newKey != oldKey {
		if _, taken := m.byEmail[newKey]; taken {
			return ErrDuplicate
		}
		delete(m.byEmail, oldKey)
		m.byEmail[newKey] = u.ID
	}
	c := *u
	m.byID[u.ID] = &c
	return nil
}
