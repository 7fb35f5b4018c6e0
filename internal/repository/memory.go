// Package repository provides persistence implementations for verification
// requests, users and listings: an in-memory mock backend and PostgreSQL.
package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atinyakov/RentVerify/internal/models"
)

var (
	// ErrNotFound is returned when the requested identifier is absent.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("already exists")
)

// Latency is the artificial delay the mock backend adds to each call so
// that loading states can be exercised.
type Latency struct {
	Read  time.Duration
	Write time.Duration
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MemoryRequestRepository keeps every verification request in process
// memory. It is the single source of truth for both role projections.
type MemoryRequestRepository struct {
	mu      sync.RWMutex
	records map[string]*models.VerificationRequest
	// order preserves insertion order for listings.
	order   []string
	latency Latency
}

// NewMemoryRequestRepository creates a repository preloaded with seed.
func NewMemoryRequestRepository(latency Latency, seed ...*models.VerificationRequest) *MemoryRequestRepository {
	m := &MemoryRequestRepository{
		records: make(map[string]*models.VerificationRequest, len(seed)),
		latency: latency,
	}
	for _, r := range seed {
		m.records[r.ID] = r.Clone()
		m.order = append(m.order, r.ID)
	}
	return m
}

// Create stores a new request. The id must not be in use.
func (m *MemoryRequestRepository) Create(ctx context.Context, req *models.VerificationRequest) (*models.VerificationRequest, error) {
	if err := wait(ctx, m.latency.Write); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[req.ID]; ok {
		return nil, ErrDuplicate
	}
	m.records[req.ID] = req.Clone()
	m.order = append(m.order, req.ID)
	return req.Clone(), nil
}

// List returns the requests matching filter in insertion order.
func (m *MemoryRequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]*models.VerificationRequest, error) {
	if err := wait(ctx, m.latency.Read); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.VerificationRequest, 0, len(m.order))
	for _, id := range m.order {
		r := m.records[id]
		if filter.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

// Get returns the request with the given id.
func (m *MemoryRequestRepository) Get(ctx context.Context, id string) (*models.VerificationRequest, error) {
	if err := wait(ctx, m.latency.Read); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

// Update shallow-merges patch into the stored request.
func (m *MemoryRequestRepository) Update(ctx context.Context, id string, patch models.RequestPatch) (*models.VerificationRequest, error) {
	if err := wait(ctx, m.latency.Write); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(r)
	r.UpdatedAt = time.Now().UTC()
	return r.Clone(), nil
}

// Delete removes the request. Both projections lose it at once.
func (m *MemoryRequestRepository) Delete(ctx context.Context, id string) error {
	if err := wait(ctx, m.latency.Write); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetStatus moves the request to status, appends note to its notes and
// records entry in its history.
func (m *MemoryRequestRepository) SetStatus(ctx context.Context, id string, status models.Status, note string, entry models.HistoryEntry) (*models.VerificationRequest, error) {
	if err := wait(ctx, m.latency.Write); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Status = status
	r.Notes += note
	r.History = append(r.History, entry)
	r.UpdatedAt = entry.At
	return r.Clone(), nil
}
