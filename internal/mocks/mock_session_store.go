package mocks

import (
	"context"
	"sync"

	"github.com/you/assessauth/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing.
// By default it behaves like a real in-memory single-slot store; individual
// operations can be overridden through the Func fields.
type MockSessionStore struct {
	SetFunc    func(ctx context.Context, session *domain.Session) error
	GetFunc    func(ctx context.Context) (*domain.Session, error)
	UpdateFunc func(ctx context.Context, fn func(domain.Session) domain.Session) (*domain.Session, error)
	ClearFunc  func(ctx context.Context) error

	mu   sync.Mutex
	slot *domain.Session
}

// NewMockSessionStore creates a new MockSessionStore with default behaviors
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

// Set stores the session in the slot
func (m *MockSessionStore) Set(ctx context.Context, session *domain.Session) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.slot = &copied
	return nil
}

// Get returns the session in the slot
func (m *MockSessionStore) Get(ctx context.Context) (*domain.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slot == nil {
		return nil, domain.ErrSessionNotFound
	}
	copied := *m.slot
	return &copied, nil
}

// Update applies fn to the slot
func (m *MockSessionStore) Update(ctx context.Context, fn func(domain.Session) domain.Session) (*domain.Session, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slot == nil {
		return nil, domain.ErrSessionNotFound
	}
	updated := fn(*m.slot)
	if updated.Role != m.slot.Role {
		return nil, domain.ErrRoleImmutable
	}
	m.slot = &updated
	copied := updated
	return &copied, nil
}

// Clear empties the slot
func (m *MockSessionStore) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot = nil
	return nil
}
