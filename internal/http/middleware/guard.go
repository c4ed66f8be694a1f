package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/assessauth/domain"
	"github.com/you/assessauth/internal/services"
)

const (
	// OnboardingPath is where a pending candidate is sent first.
	OnboardingPath = "/auth/candidate/change-password"
	// LoginPath is where an unauthenticated request is sent.
	LoginPath = "/auth/login"
)

// GuardMW translates route guard decisions into HTTP responses. It is the
// only place session state turns into navigation outcomes; handlers never
// re-derive role logic.
type GuardMW struct {
	sessions domain.SessionStore
	tokenSvc domain.TokenService
	guard    *services.RouteGuard
}

// NewGuardMW creates new guard middleware
func NewGuardMW(sessions domain.SessionStore, tokenSvc domain.TokenService, guard *services.RouteGuard) *GuardMW {
	return &GuardMW{
		sessions: sessions,
		tokenSvc: tokenSvc,
		guard:    guard,
	}
}

// Require gates a destination. The session is read from the authoritative
// store, never inferred from the request; the bearer header must present the
// session's own token.
func (mw *GuardMW) Require(dest domain.Destination) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := mw.currentSession(c)

		switch mw.guard.Decide(session, dest) {
		case domain.DecisionRedirectLogin:
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": LoginPath,
			})
			c.Abort()
			return
		case domain.DecisionRedirectOnboarding:
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "password change required before continuing",
				"redirect": OnboardingPath,
			})
			c.Abort()
			return
		case domain.DecisionForbidden:
			// Access denied is rendered as such, not as a login bounce, so
			// the user understands why.
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied for role " + string(session.Role)})
			c.Abort()
			return
		}

		c.Set("session_role", string(session.Role))
		c.Next()
	}
}

// currentSession resolves the authenticated session, or nil. A stale or
// mismatched bearer token is treated as unauthenticated even when the slot
// is occupied.
func (mw *GuardMW) currentSession(c *gin.Context) *domain.Session {
	session, err := mw.sessions.Get(c.Request.Context())
	if err != nil {
		return nil
	}

	authHeader := c.GetHeader("Authorization")
	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] != session.Token {
		return nil
	}

	if _, err := mw.tokenSvc.Validate(session.Token); err != nil {
		return nil
	}

	return session
}
