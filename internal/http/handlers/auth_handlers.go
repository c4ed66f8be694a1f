package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/assessauth/domain"
	"github.com/you/assessauth/internal/services"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc    domain.AuthService
	statusSvc  domain.TrialStatusProvider
	trialClock *services.TrialClock
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, statusSvc domain.TrialStatusProvider, trialClock *services.TrialClock) *AuthHandlers {
	return &AuthHandlers{
		authSvc:    authSvc,
		statusSvc:  statusSvc,
		trialClock: trialClock,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TrialRegisterRequest represents a trial registration request
type TrialRegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// ChangePasswordRequest represents a mandatory password rotation request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// EnrollCandidateRequest represents a candidate enrollment request
type EnrollCandidateRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required,e164"`
}

// LoginAdmin handles administrator login
func (h *AuthHandlers) LoginAdmin(c *gin.Context) {
	h.login(c, domain.RoleAdmin)
}

// LoginCandidate handles candidate login
func (h *AuthHandlers) LoginCandidate(c *gin.Context) {
	h.login(c, domain.RoleCandidate)
}

// LoginTrial handles trial user login
func (h *AuthHandlers) LoginTrial(c *gin.Context) {
	h.login(c, domain.RoleTrial)
}

func (h *AuthHandlers) login(c *gin.Context, roleClaim domain.Role) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authSvc.Authenticate(c.Request.Context(), roleClaim, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		case domain.ErrAccountInactive:
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		case domain.ErrSessionExpired:
			c.JSON(http.StatusForbidden, gin.H{"error": "Trial has expired"})
		case domain.ErrServiceUnavailable:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	if session.Role == domain.RoleTrial {
		// Background countdown begins the moment a trial session exists; a
		// session the clock refuses to track must not be handed out.
		if err := h.trialClock.Start(context.Background(), session); err != nil {
			if err == domain.ErrSessionExpired {
				c.JSON(http.StatusForbidden, gin.H{"error": "Trial has expired"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": sessionPayload(session)})
}

// RegisterTrial handles trial self-registration
func (h *AuthHandlers) RegisterTrial(c *gin.Context) {
	var req TrialRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authSvc.RegisterTrial(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrRegistrationConflict:
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered for a trial"})
		case domain.ErrServiceUnavailable:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}

	if err := h.trialClock.Start(context.Background(), session); err != nil {
		if err == domain.ErrSessionExpired {
			c.JSON(http.StatusForbidden, gin.H{"error": "Trial has expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": sessionPayload(session)})
}

// ChangePassword handles the mandatory first-login password rotation
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch err {
		case domain.ErrNotPending:
			c.JSON(http.StatusConflict, gin.H{"error": "No password change is pending"})
		case domain.ErrPasswordMismatch:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		case domain.ErrWeakPassword:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Password must be at least 8 characters and use at least three of: uppercase, lowercase, digits, symbols",
			})
		case domain.ErrSessionNotFound, domain.ErrSessionExpired:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
		case domain.ErrServiceUnavailable:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password change failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Password changed successfully"},
	})
}

// EnrollCandidate handles admin-driven candidate enrollment
func (h *AuthHandlers) EnrollCandidate(c *gin.Context) {
	var req EnrollCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.authSvc.EnrollCandidate(c.Request.Context(), req.FullName, req.Email, req.Mobile)
	if err != nil {
		switch err {
		case domain.ErrAccountExists:
			c.JSON(http.StatusConflict, gin.H{"error": "Email or mobile number already registered"})
		case domain.ErrServiceUnavailable:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Enrollment failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message":          "Candidate enrolled. Temporary credential sent by SMS.",
			"account_id":       account.ID,
			"email":            account.Email,
			"initial_password": "the candidate's mobile number",
		},
	})
}

// TrialStatus handles the polled trial entitlement read
func (h *AuthHandlers) TrialStatus(c *gin.Context) {
	status, err := h.statusSvc.GetTrialStatus(c.Request.Context())
	if err != nil {
		switch err {
		case domain.ErrSessionNotFound, domain.ErrSessionExpired, domain.ErrInvalidSessionState:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No active trial session"})
		case domain.ErrServiceUnavailable:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Status check failed"})
		}
		return
	}

	state := "active"
	if status.Expired() {
		state = "expired"
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"status":            state,
			"remaining_seconds": status.RemainingSeconds,
		},
	})
}

// Me handles getting the current session's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	account, err := h.authSvc.GetProfile(c.Request.Context())
	if err != nil {
		switch err {
		case domain.ErrSessionNotFound, domain.ErrSessionExpired:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
		case domain.ErrAccountNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		}
		return
	}

	profile := gin.H{
		"email":     account.Email,
		"full_name": account.FullName,
		"role":      account.Role,
	}
	switch account.Role {
	case domain.RoleCandidate:
		profile["mobile"] = account.Mobile
		profile["first_login"] = account.FirstLogin
	case domain.RoleTrial:
		profile["trial_ends_at"] = account.TrialEndsAt
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// Logout handles session teardown
func (h *AuthHandlers) Logout(c *gin.Context) {
	// Stop the countdown before the slot clears so a stale expiry cannot
	// fire against an empty store.
	h.trialClock.Stop()

	if err := h.authSvc.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Logged out successfully"},
	})
}

func sessionPayload(session *domain.Session) gin.H {
	payload := gin.H{
		"token":      session.Token,
		"token_type": "Bearer",
		"role":       session.Role,
		"created_at": session.CreatedAt.Format(time.RFC3339),
	}
	if session.Role == domain.RoleCandidate {
		payload["first_login_pending"] = session.FirstLoginPending
	}
	if session.TrialDeadline != nil {
		payload["trial_deadline"] = session.TrialDeadline.Format(time.RFC3339)
	}
	return payload
}
