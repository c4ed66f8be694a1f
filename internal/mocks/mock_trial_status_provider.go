package mocks

import (
	"context"
	"sync"

	"github.com/you/assessauth/domain"
)

// MockTrialStatusProvider implements domain.TrialStatusProvider interface for
// testing. Results returns one scripted outcome per poll, repeating the last
// entry once exhausted.
type MockTrialStatusProvider struct {
	GetTrialStatusFunc func(ctx context.Context) (*domain.TrialStatus, error)

	mu      sync.Mutex
	Results []TrialStatusResult
	calls   int
}

// TrialStatusResult is one scripted poll outcome
type TrialStatusResult struct {
	Status *domain.TrialStatus
	Err    error
}

// NewMockTrialStatusProvider creates a new MockTrialStatusProvider with default behaviors
func NewMockTrialStatusProvider() *MockTrialStatusProvider {
	return &MockTrialStatusProvider{}
}

// GetTrialStatus returns the next scripted poll outcome
func (m *MockTrialStatusProvider) GetTrialStatus(ctx context.Context) (*domain.TrialStatus, error) {
	if m.GetTrialStatusFunc != nil {
		return m.GetTrialStatusFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.Results) == 0 {
		return &domain.TrialStatus{RemainingSeconds: 60}, nil
	}
	idx := m.calls - 1
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	r := m.Results[idx]
	return r.Status, r.Err
}

// Calls returns how many polls have been made
func (m *MockTrialStatusProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
