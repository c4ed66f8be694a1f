package app

import (
	"github.com/casbin/casbin/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/assessauth/domain"
	"github.com/you/assessauth/internal/config"
	"github.com/you/assessauth/internal/infrastructure/auth"
	"github.com/you/assessauth/internal/infrastructure/database"
	"github.com/you/assessauth/internal/infrastructure/notifications"
	"github.com/you/assessauth/internal/infrastructure/repositories"
	"github.com/you/assessauth/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Enforcer    *casbin.Enforcer

	// Repositories
	AccountRepo  domain.AccountRepository
	SessionStore domain.SessionStore

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AuditLog        domain.AuditLogger
	AuthSvc         domain.AuthService
	StatusSvc       domain.TrialStatusProvider
	PolicySvc       domain.PolicyService
	TrialClock      *services.TrialClock
	RouteGuard      *services.RouteGuard
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	// Initialize infrastructure
	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initCasbin(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	// Initialize repositories
	container.initRepositories()

	// Initialize services
	container.initServices()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	c.DB = db
	return nil
}

func (c *Container) initCasbin() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Enforcer = cas.E
	return nil
}

func (c *Container) initRedis() error {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	return nil
}

func (c *Container) initRepositories() {
	c.AccountRepo = repositories.NewAccountRepository(c.DB)
	c.SessionStore = repositories.NewSessionStore(c.RedisClient, c.Config.SessionTTL)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.SessionTTL,
	)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
	)
	c.AuditLog = services.NewAuditLogger()
	c.PolicySvc = services.NewPolicyService(c.Enforcer)

	authSvc := services.NewAuthService(
		c.AccountRepo,
		c.SessionStore,
		c.PasswordSvc,
		c.TokenSvc,
		c.NotificationSvc,
		c.AuditLog,
		c.Config.TrialDuration,
		c.Config.VerifierTimeout,
	)
	c.AuthSvc = authSvc
	c.StatusSvc = authSvc

	c.TrialClock = services.NewTrialClock(
		c.StatusSvc,
		c.SessionStore,
		c.AuditLog,
		c.Config.TrialPollInterval,
		c.Config.TrialFailureThreshold,
	)
	c.RouteGuard = services.NewRouteGuard()
}

// Close closes all connections
func (c *Container) Close() error {
	if c.TrialClock != nil {
		c.TrialClock.Stop()
	}

	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
