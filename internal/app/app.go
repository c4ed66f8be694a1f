package app

import (
	"context"
	"log"
	"net/http"

	"github.com/you/assessauth/internal/config"
	httpx "github.com/you/assessauth/internal/http"
	"github.com/you/assessauth/internal/http/handlers"
	"github.com/you/assessauth/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	// Initialize handlers
	authH := handlers.NewAuthHandlers(c.AuthSvc, c.StatusSvc, c.TrialClock)
	polH := &handlers.PolicyHandlers{PolicySvc: c.PolicySvc}

	// Initialize middleware
	guardMW := middleware.NewGuardMW(c.SessionStore, c.TokenSvc, c.RouteGuard)
	casbinMW := middleware.NewCasbinMW(c.PolicySvc)

	// Build router
	r := httpx.BuildRouter(authH, polH, guardMW, casbinMW)

	policies, _ := c.Enforcer.GetPolicy()
	if len(policies) == 0 {
		c.Enforcer.AddPolicy("admin", "/admin/*", "(GET|POST|DELETE)")
		_ = c.Enforcer.SavePolicy()
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
