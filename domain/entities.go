package domain

import "time"

// Role identifies which rule set applies to an account and its sessions.
// A session's role is fixed at creation and never changes.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCandidate Role = "candidate"
	RoleTrial     Role = "trial"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCandidate, RoleTrial:
		return true
	}
	return false
}

// Account represents a stored account in the system
type Account struct {
	ID           uint
	Email        string
	FullName     string
	Mobile       string
	PasswordHash string `gorm:"column:password"`
	Role         Role
	IsActive     bool
	// FirstLogin is meaningful only for candidate accounts: true until the
	// temporary initial secret has been rotated.
	FirstLogin bool
	// TrialEndsAt is the server-authoritative trial deadline; set only for
	// trial accounts, at registration time.
	TrialEndsAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session is the single authoritative record of an authenticated user.
// The token is owned exclusively by the session and is never persisted
// anywhere else.
type Session struct {
	Token             string     `json:"token"`
	Role              Role       `json:"role"`
	CreatedAt         time.Time  `json:"created_at"`
	FirstLoginPending bool       `json:"first_login_pending,omitempty"`
	TrialDeadline     *time.Time `json:"trial_deadline,omitempty"`
}

// NewSession builds a session and enforces the construction-time invariants:
// a trial deadline is present if and only if the role is trial, and only a
// candidate session may have the first-login flag set.
func NewSession(token string, role Role, firstLoginPending bool, trialDeadline *time.Time) (*Session, error) {
	if !role.Valid() {
		return nil, ErrUnknownRole
	}
	if firstLoginPending && role != RoleCandidate {
		return nil, ErrInvalidSessionState
	}
	if (trialDeadline != nil) != (role == RoleTrial) {
		return nil, ErrInvalidSessionState
	}
	return &Session{
		Token:             token,
		Role:              role,
		CreatedAt:         time.Now().UTC(),
		FirstLoginPending: firstLoginPending,
		TrialDeadline:     trialDeadline,
	}, nil
}

// OnboardingRequirement is the outcome of the onboarding policy.
type OnboardingRequirement int

const (
	OnboardingNone OnboardingRequirement = iota
	OnboardingPasswordChange
)

// NavigationDecision is the four-valued outcome of the route guard.
type NavigationDecision int

const (
	DecisionAllow NavigationDecision = iota
	DecisionRedirectOnboarding
	DecisionRedirectLogin
	DecisionForbidden
)

func (d NavigationDecision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectOnboarding:
		return "redirect_onboarding"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Destination describes a navigation target as the route guard sees it.
type Destination struct {
	// Path identifies the destination, e.g. "/admin/dashboard".
	Path string
	// RequiredRole restricts the destination to a single role when non-empty.
	RequiredRole Role
	// Onboarding marks the mandatory password-change screen itself, which
	// must stay reachable while onboarding is pending.
	Onboarding bool
}

// TrialStatus is the single polled read consumed by the trial clock.
type TrialStatus struct {
	RemainingSeconds int64 `json:"remaining_seconds"`
}

// Expired reports whether the server considers the trial entitlement spent.
func (s TrialStatus) Expired() bool { return s.RemainingSeconds <= 0 }
