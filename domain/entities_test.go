package domain

import (
	"testing"
	"time"
)

func TestNewSession_Invariants(t *testing.T) {
	deadline := time.Now().Add(time.Hour)

	tests := []struct {
		name              string
		role              Role
		firstLoginPending bool
		trialDeadline     *time.Time
		expectedError     error
	}{
		{
			name:          "admin session",
			role:          RoleAdmin,
			expectedError: nil,
		},
		{
			name:          "candidate session without pending onboarding",
			role:          RoleCandidate,
			expectedError: nil,
		},
		{
			name:              "candidate session with pending onboarding",
			role:              RoleCandidate,
			firstLoginPending: true,
			expectedError:     nil,
		},
		{
			name:          "trial session with deadline",
			role:          RoleTrial,
			trialDeadline: &deadline,
			expectedError: nil,
		},
		{
			name:              "admin session must not be first-login pending",
			role:              RoleAdmin,
			firstLoginPending: true,
			expectedError:     ErrInvalidSessionState,
		},
		{
			name:              "trial session must not be first-login pending",
			role:              RoleTrial,
			firstLoginPending: true,
			trialDeadline:     &deadline,
			expectedError:     ErrInvalidSessionState,
		},
		{
			name:          "trial session requires a deadline",
			role:          RoleTrial,
			trialDeadline: nil,
			expectedError: ErrInvalidSessionState,
		},
		{
			name:          "candidate session must not carry a deadline",
			role:          RoleCandidate,
			trialDeadline: &deadline,
			expectedError: ErrInvalidSessionState,
		},
		{
			name:          "unknown role",
			role:          Role("superuser"),
			expectedError: ErrUnknownRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewSession("tok_abc", tt.role, tt.firstLoginPending, tt.trialDeadline)
			if err != tt.expectedError {
				t.Fatalf("expected error %v, got %v", tt.expectedError, err)
			}
			if tt.expectedError != nil {
				if session != nil {
					t.Error("expected nil session on invariant violation")
				}
				return
			}
			if session.Token != "tok_abc" {
				t.Errorf("expected token tok_abc, got %s", session.Token)
			}
			if session.Role != tt.role {
				t.Errorf("expected role %s, got %s", tt.role, session.Role)
			}
			if session.CreatedAt.IsZero() {
				t.Error("expected CreatedAt to be set")
			}
			if (session.TrialDeadline != nil) != (tt.role == RoleTrial) {
				t.Error("trial deadline presence must match trial role")
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleCandidate, RoleTrial} {
		if !role.Valid() {
			t.Errorf("expected role %s to be valid", role)
		}
	}
	for _, role := range []Role{"", "user", "Admin", "TRIAL"} {
		if role.Valid() {
			t.Errorf("expected role %q to be invalid", role)
		}
	}
}

func TestTrialStatus_Expired(t *testing.T) {
	tests := []struct {
		name      string
		remaining int64
		expired   bool
	}{
		{"time left", 120, false},
		{"one second left", 1, false},
		{"zero remaining", 0, true},
		{"negative remaining", -30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := TrialStatus{RemainingSeconds: tt.remaining}
			if status.Expired() != tt.expired {
				t.Errorf("expected Expired() == %v for remaining %d", tt.expired, tt.remaining)
			}
		})
	}
}

func TestNavigationDecision_String(t *testing.T) {
	cases := map[NavigationDecision]string{
		DecisionAllow:              "allow",
		DecisionRedirectOnboarding: "redirect_onboarding",
		DecisionRedirectLogin:      "redirect_login",
		DecisionForbidden:          "forbidden",
		NavigationDecision(99):     "unknown",
	}
	for decision, expected := range cases {
		if decision.String() != expected {
			t.Errorf("expected %q, got %q", expected, decision.String())
		}
	}
}
