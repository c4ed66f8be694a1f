package domain

import "context"

// AccountRepository defines account data access operations
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByEmailAndRole(ctx context.Context, email string, role Role) (*Account, error)
	FindByMobile(ctx context.Context, mobile string) (*Account, error)
	UpdatePassword(ctx context.Context, accountID uint, passwordHash string) error
	ClearFirstLogin(ctx context.Context, accountID uint) error
	HasTrialRecord(ctx context.Context, email string) (bool, error)
}

// SessionStore holds the single authoritative session slot. All writes go
// through the credential verifier; every other component only reads.
type SessionStore interface {
	Set(ctx context.Context, session *Session) error
	Get(ctx context.Context) (*Session, error)
	// Update applies fn to the current session and persists the result.
	// It rejects any role reassignment with ErrRoleImmutable.
	Update(ctx context.Context, fn func(Session) Session) (*Session, error)
	Clear(ctx context.Context) error
}

// CredentialVerifier turns raw credentials into a role-scoped session.
type CredentialVerifier interface {
	Authenticate(ctx context.Context, roleClaim Role, identifier, secret string) (*Session, error)
	RegisterTrial(ctx context.Context, fullName, identifier, secret string) (*Session, error)
	ChangePassword(ctx context.Context, currentSecret, newSecret string) error
	Logout(ctx context.Context) error
}

// AuthService is the full authentication business surface: the verifier
// contract plus the account-facing operations built on it.
type AuthService interface {
	CredentialVerifier
	EnrollCandidate(ctx context.Context, fullName, email, mobile string) (*Account, error)
	GetProfile(ctx context.Context) (*Account, error)
}

// PasswordService defines secret hashing and strength operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	// CheckStrength returns ErrWeakPassword when the candidate secret fails
	// the minimum-strength policy.
	CheckStrength(password string) error
}

// TokenService defines bearer token operations
type TokenService interface {
	Generate(email string, role Role) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// TokenClaims represents the claims carried by a bearer token
type TokenClaims struct {
	Email     string `json:"sub"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TrialStatusProvider is the polled read the trial clock consumes.
type TrialStatusProvider interface {
	GetTrialStatus(ctx context.Context) (*TrialStatus, error)
}

// NotificationService delivers lifecycle notices to account holders.
type NotificationService interface {
	// SendEnrollmentNotice tells a freshly enrolled candidate how to sign in
	// with their temporary credential.
	SendEnrollmentNotice(mobile, email string) error
}

// PolicyService defines role-to-destination policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
