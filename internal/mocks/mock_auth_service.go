package mocks

import (
	"context"

	"github.com/you/assessauth/domain"
)

// MockAuthService is a hand-written mock of domain.AuthService using
// function fields for flexible behavior per test.
type MockAuthService struct {
	AuthenticateFunc    func(ctx context.Context, roleClaim domain.Role, identifier, secret string) (*domain.Session, error)
	RegisterTrialFunc   func(ctx context.Context, fullName, identifier, secret string) (*domain.Session, error)
	ChangePasswordFunc  func(ctx context.Context, currentSecret, newSecret string) error
	LogoutFunc          func(ctx context.Context) error
	EnrollCandidateFunc func(ctx context.Context, fullName, email, mobile string) (*domain.Account, error)
	GetProfileFunc      func(ctx context.Context) (*domain.Account, error)
}

func (m *MockAuthService) Authenticate(ctx context.Context, roleClaim domain.Role, identifier, secret string) (*domain.Session, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, roleClaim, identifier, secret)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) RegisterTrial(ctx context.Context, fullName, identifier, secret string) (*domain.Session, error) {
	if m.RegisterTrialFunc != nil {
		return m.RegisterTrialFunc(ctx, fullName, identifier, secret)
	}
	return nil, domain.ErrServiceUnavailable
}

func (m *MockAuthService) ChangePassword(ctx context.Context, currentSecret, newSecret string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, currentSecret, newSecret)
	}
	return domain.ErrNotPending
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAuthService) EnrollCandidate(ctx context.Context, fullName, email, mobile string) (*domain.Account, error) {
	if m.EnrollCandidateFunc != nil {
		return m.EnrollCandidateFunc(ctx, fullName, email, mobile)
	}
	return nil, domain.ErrServiceUnavailable
}

func (m *MockAuthService) GetProfile(ctx context.Context) (*domain.Account, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx)
	}
	return nil, domain.ErrSessionNotFound
}
