package services

import "github.com/you/assessauth/domain"

// RequiredOnboarding decides whether a freshly authenticated session must
// complete a mandatory step before normal operation. It is a pure function
// of the session and is re-evaluated on every navigation, not only at login,
// so a session that reaches a later screen early is still redirected back.
func RequiredOnboarding(session *domain.Session) domain.OnboardingRequirement {
	if session == nil {
		return domain.OnboardingNone
	}
	if session.Role == domain.RoleCandidate && session.FirstLoginPending {
		return domain.OnboardingPasswordChange
	}
	return domain.OnboardingNone
}
