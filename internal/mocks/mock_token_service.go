package mocks

import (
	"strings"
	"time"

	"github.com/you/assessauth/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateFunc func(email string, role domain.Role) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Generate mints a bearer token
func (m *MockTokenService) Generate(email string, role domain.Role) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(email, role)
	}
	// Default behavior: reversible fake token
	return "tok:" + email + ":" + string(role), nil
}

// Validate parses a bearer token
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	// Default behavior: parse the fake token format
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "tok" {
		return nil, domain.ErrTokenInvalid
	}
	now := time.Now()
	return &domain.TokenClaims{
		Email:     parts[1],
		Role:      domain.Role(parts[2]),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}, nil
}
