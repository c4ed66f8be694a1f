package services

import "github.com/you/assessauth/domain"

// RouteGuard is the single chokepoint deciding navigation outcomes from
// session state. Presentation layers react to its four-valued output and
// never re-derive role logic themselves.
type RouteGuard struct{}

// NewRouteGuard creates a new route guard
func NewRouteGuard() *RouteGuard {
	return &RouteGuard{}
}

// Decide evaluates a navigation request. It is idempotent and side-effect
// free; it is safe to call on every render and navigation.
//
// A role-mismatched visit by an authenticated session yields Forbidden
// rather than a redirect, so the user understands why access was denied.
func (g *RouteGuard) Decide(session *domain.Session, dest domain.Destination) domain.NavigationDecision {
	if session == nil {
		return domain.DecisionRedirectLogin
	}

	if RequiredOnboarding(session) == domain.OnboardingPasswordChange && !dest.Onboarding {
		return domain.DecisionRedirectOnboarding
	}

	if dest.RequiredRole != "" && session.Role != dest.RequiredRole {
		return domain.DecisionForbidden
	}

	return domain.DecisionAllow
}
