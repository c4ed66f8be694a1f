package mocks

import (
	"context"

	"github.com/you/assessauth/domain"
)

// MockAccountRepository implements domain.AccountRepository interface for testing
type MockAccountRepository struct {
	CreateFunc             func(ctx context.Context, account *domain.Account) error
	FindByEmailFunc        func(ctx context.Context, email string) (*domain.Account, error)
	FindByEmailAndRoleFunc func(ctx context.Context, email string, role domain.Role) (*domain.Account, error)
	FindByMobileFunc       func(ctx context.Context, mobile string) (*domain.Account, error)
	UpdatePasswordFunc     func(ctx context.Context, accountID uint, passwordHash string) error
	ClearFirstLoginFunc    func(ctx context.Context, accountID uint) error
	HasTrialRecordFunc     func(ctx context.Context, email string) (bool, error)
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

// Create creates a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	// Default behavior: success
	account.ID = 1
	return nil
}

// FindByEmail finds an account by email
func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindByEmailAndRole finds an account by email and role
func (m *MockAccountRepository) FindByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.Account, error) {
	if m.FindByEmailAndRoleFunc != nil {
		return m.FindByEmailAndRoleFunc(ctx, email, role)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindByMobile finds an account by mobile number
func (m *MockAccountRepository) FindByMobile(ctx context.Context, mobile string) (*domain.Account, error) {
	if m.FindByMobileFunc != nil {
		return m.FindByMobileFunc(ctx, mobile)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// UpdatePassword updates an account's password hash
func (m *MockAccountRepository) UpdatePassword(ctx context.Context, accountID uint, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, accountID, passwordHash)
	}
	// Default behavior: success
	return nil
}

// ClearFirstLogin clears an account's first-login flag
func (m *MockAccountRepository) ClearFirstLogin(ctx context.Context, accountID uint) error {
	if m.ClearFirstLoginFunc != nil {
		return m.ClearFirstLoginFunc(ctx, accountID)
	}
	// Default behavior: success
	return nil
}

// HasTrialRecord reports whether a trial record exists for the email
func (m *MockAccountRepository) HasTrialRecord(ctx context.Context, email string) (bool, error) {
	if m.HasTrialRecordFunc != nil {
		return m.HasTrialRecordFunc(ctx, email)
	}
	// Default behavior: no record
	return false, nil
}
