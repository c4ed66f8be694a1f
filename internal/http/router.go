package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/assessauth/domain"
	"github.com/you/assessauth/internal/http/handlers"
	"github.com/you/assessauth/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, ph *handlers.PolicyHandlers, guard *middleware.GuardMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Sign-in surfaces, one per role. Trial registration is the only
	// self-service account creation.
	auth := r.Group("/auth")
	auth.POST("/admin/login", ah.LoginAdmin)
	auth.POST("/candidate/login", ah.LoginCandidate)
	auth.POST("/trial/login", ah.LoginTrial)
	auth.POST("/trial/register", ah.RegisterTrial)

	// Destinations reachable by any authenticated session.
	any := r.Group("/auth")
	any.GET("/me", guard.Require(domain.Destination{Path: "/auth/me"}), ah.Me)
	any.POST("/logout", guard.Require(domain.Destination{Path: "/auth/logout"}), ah.Logout)

	// The onboarding screen itself must stay reachable while the mandatory
	// password change is pending, so it is flagged as such.
	candidate := r.Group("/auth/candidate")
	candidate.POST("/change-password", guard.Require(domain.Destination{
		Path:         middleware.OnboardingPath,
		RequiredRole: domain.RoleCandidate,
		Onboarding:   true,
	}), ah.ChangePassword)
	candidate.POST("/enroll", guard.Require(domain.Destination{
		Path:         "/auth/candidate/enroll",
		RequiredRole: domain.RoleAdmin,
	}), ah.EnrollCandidate)

	trial := r.Group("/auth/trial")
	trial.GET("/status", guard.Require(domain.Destination{
		Path:         "/auth/trial/status",
		RequiredRole: domain.RoleTrial,
	}), ah.TrialStatus)

	adm := r.Group("/admin").Use(guard.Require(domain.Destination{
		Path:         "/admin",
		RequiredRole: domain.RoleAdmin,
	}), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
