package services

import (
	"testing"
	"time"

	"github.com/you/assessauth/domain"
)

func TestRouteGuard_Decide(t *testing.T) {
	guard := NewRouteGuard()
	deadline := time.Now().Add(time.Hour)

	adminSession := &domain.Session{Token: "t1", Role: domain.RoleAdmin}
	pendingCandidate := &domain.Session{Token: "t2", Role: domain.RoleCandidate, FirstLoginPending: true}
	readyCandidate := &domain.Session{Token: "t3", Role: domain.RoleCandidate}
	trialSession := &domain.Session{Token: "t4", Role: domain.RoleTrial, TrialDeadline: &deadline}

	dashboard := domain.Destination{Path: "/candidate/dashboard", RequiredRole: domain.RoleCandidate}
	adminArea := domain.Destination{Path: "/admin/reports", RequiredRole: domain.RoleAdmin}
	onboarding := domain.Destination{Path: "/candidate/change-password", RequiredRole: domain.RoleCandidate, Onboarding: true}
	open := domain.Destination{Path: "/help"}

	tests := []struct {
		name     string
		session  *domain.Session
		dest     domain.Destination
		expected domain.NavigationDecision
	}{
		{"unauthenticated to open destination", nil, open, domain.DecisionRedirectLogin},
		{"unauthenticated to role destination", nil, adminArea, domain.DecisionRedirectLogin},
		{"pending candidate to dashboard", pendingCandidate, dashboard, domain.DecisionRedirectOnboarding},
		{"pending candidate to open destination", pendingCandidate, open, domain.DecisionRedirectOnboarding},
		{"pending candidate to onboarding screen", pendingCandidate, onboarding, domain.DecisionAllow},
		{"pending candidate to admin area", pendingCandidate, adminArea, domain.DecisionRedirectOnboarding},
		{"ready candidate to dashboard", readyCandidate, dashboard, domain.DecisionAllow},
		{"ready candidate to admin area", readyCandidate, adminArea, domain.DecisionForbidden},
		{"admin to admin area", adminSession, adminArea, domain.DecisionAllow},
		{"admin to candidate dashboard", adminSession, dashboard, domain.DecisionForbidden},
		{"trial to admin area", trialSession, adminArea, domain.DecisionForbidden},
		{"trial to open destination", trialSession, open, domain.DecisionAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guard.Decide(tt.session, tt.dest)
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}

			// The guard is consulted on every navigation; repeated calls on
			// unchanged input must agree.
			if again := guard.Decide(tt.session, tt.dest); again != got {
				t.Errorf("expected idempotent decision, got %v then %v", got, again)
			}
		})
	}
}

// After a successful password rotation the same session/destination pair
// flips from RedirectOnboarding to Allow.
func TestRouteGuard_Decide_AfterOnboarding(t *testing.T) {
	guard := NewRouteGuard()
	dashboard := domain.Destination{Path: "/candidate/dashboard", RequiredRole: domain.RoleCandidate}

	session := &domain.Session{Token: "t", Role: domain.RoleCandidate, FirstLoginPending: true}
	if got := guard.Decide(session, dashboard); got != domain.DecisionRedirectOnboarding {
		t.Fatalf("expected RedirectOnboarding before rotation, got %v", got)
	}

	session.FirstLoginPending = false
	if got := guard.Decide(session, dashboard); got != domain.DecisionAllow {
		t.Fatalf("expected Allow after rotation, got %v", got)
	}
}
