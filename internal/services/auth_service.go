package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you/assessauth/domain"
)

// AuthServiceImpl implements domain.AuthService and domain.TrialStatusProvider.
// It is the single writer of the session store; every other component only
// reads the store through its interface.
type AuthServiceImpl struct {
	accounts    domain.AccountRepository
	sessions    domain.SessionStore
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	notifySvc   domain.NotificationService
	audit       domain.AuditLogger

	trialDuration time.Duration
	timeout       time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	accounts domain.AccountRepository,
	sessions domain.SessionStore,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	notifySvc domain.NotificationService,
	audit domain.AuditLogger,
	trialDuration time.Duration,
	timeout time.Duration,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		accounts:      accounts,
		sessions:      sessions,
		passwordSvc:   passwordSvc,
		tokenSvc:      tokenSvc,
		notifySvc:     notifySvc,
		audit:         audit,
		trialDuration: trialDuration,
		timeout:       timeout,
	}
}

// withTimeout bounds every backend round trip. No verifier operation may
// block the caller for longer than one network round trip.
func (s *AuthServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// asUnavailable maps timeouts and backend failures to ErrServiceUnavailable,
// never to silent success. Domain sentinels pass through untouched.
func asUnavailable(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrRoleImmutable),
		errors.Is(err, domain.ErrInvalidSessionState):
		return err
	default:
		return domain.ErrServiceUnavailable
	}
}

// Authenticate implements domain.CredentialVerifier. The role claim selects
// which backend rule set applies, since every role signs in with an email.
// Unknown identifier, wrong secret and role mismatch all yield the same
// ErrInvalidCredentials so the response never reveals whether the
// identifier exists.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, roleClaim domain.Role, identifier, secret string) (*domain.Session, error) {
	if !roleClaim.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	account, err := s.accounts.FindByEmailAndRole(ctx, identifier, roleClaim)
	if err != nil {
		if err := asUnavailable(err); err != domain.ErrAccountNotFound {
			return nil, err
		}
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginFailureEvent, identifier, roleClaim).
			WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(account.PasswordHash, secret) {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginFailureEvent, identifier, roleClaim).
			WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, domain.ErrAccountInactive
	}

	session, err := s.buildSession(account)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, asUnavailable(err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginEvent, account.Email, account.Role))
	return session, nil
}

// buildSession derives the session from the account row. The account is the
// sole source of truth for the first-login flag and the trial deadline; the
// deadline is taken verbatim, never recomputed here.
func (s *AuthServiceImpl) buildSession(account *domain.Account) (*domain.Session, error) {
	if account.Role == domain.RoleTrial {
		if account.TrialEndsAt == nil {
			return nil, domain.ErrInvalidSessionState
		}
		if !time.Now().Before(*account.TrialEndsAt) {
			return nil, domain.ErrSessionExpired
		}
	}

	token, err := s.tokenSvc.Generate(account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	firstLoginPending := account.Role == domain.RoleCandidate && account.FirstLogin

	var deadline *time.Time
	if account.Role == domain.RoleTrial {
		d := account.TrialEndsAt.UTC()
		deadline = &d
	}

	return domain.NewSession(token, account.Role, firstLoginPending, deadline)
}

// RegisterTrial implements domain.CredentialVerifier. An identifier with any
// trial record, active or expired, cannot register again.
func (s *AuthServiceImpl) RegisterTrial(ctx context.Context, fullName, identifier, secret string) (*domain.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	taken, err := s.accounts.HasTrialRecord(ctx, identifier)
	if err != nil {
		return nil, asUnavailable(err)
	}
	if taken {
		return nil, domain.ErrRegistrationConflict
	}

	hash, err := s.passwordSvc.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Deadline is computed server-side from registration time plus the fixed
	// entitlement; clients only ever read it back.
	deadline := time.Now().Add(s.trialDuration).UTC()
	account := &domain.Account{
		Email:        identifier,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         domain.RoleTrial,
		IsActive:     true,
		TrialEndsAt:  &deadline,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrRegistrationConflict
		}
		return nil, asUnavailable(err)
	}

	session, err := s.buildSession(account)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, asUnavailable(err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TrialRegisteredEvent, identifier, domain.RoleTrial).
		WithMetadata("trial_ends_at", deadline.Format(time.RFC3339)))
	return session, nil
}

// isUniqueViolation catches a concurrent registration racing past the
// HasTrialRecord check into the unique index.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}

// ChangePassword implements domain.CredentialVerifier. It is only valid
// against a session with a pending first login; on any failure the pending
// state is left unchanged so the user can retry.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, currentSecret, newSecret string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session, err := s.sessions.Get(ctx)
	if err != nil {
		return asUnavailable(err)
	}
	if session.Role != domain.RoleCandidate || !session.FirstLoginPending {
		return domain.ErrNotPending
	}

	claims, err := s.tokenSvc.Validate(session.Token)
	if err != nil {
		return domain.ErrSessionExpired
	}

	account, err := s.accounts.FindByEmailAndRole(ctx, claims.Email, domain.RoleCandidate)
	if err != nil {
		return asUnavailable(err)
	}

	if !s.passwordSvc.Verify(account.PasswordHash, currentSecret) {
		return domain.ErrPasswordMismatch
	}

	if err := s.passwordSvc.CheckStrength(newSecret); err != nil {
		return domain.ErrWeakPassword
	}

	hash, err := s.passwordSvc.Hash(newSecret)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return asUnavailable(err)
	}
	if err := s.accounts.ClearFirstLogin(ctx, account.ID); err != nil {
		return asUnavailable(err)
	}

	if _, err := s.sessions.Update(ctx, func(sess domain.Session) domain.Session {
		sess.FirstLoginPending = false
		return sess
	}); err != nil {
		return asUnavailable(err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OnboardingCompletedEvent, account.Email, domain.RoleCandidate))
	return nil
}

// Logout implements domain.CredentialVerifier
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session, err := s.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return asUnavailable(err)
	}

	if err := s.sessions.Clear(ctx); err != nil {
		return asUnavailable(err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LogoutEvent, "", session.Role))
	return nil
}

// EnrollCandidate implements domain.AuthService. The candidate's mobile
// number doubles as the transient initial secret; the account starts with a
// pending first login and the temporary credential is delivered by SMS.
func (s *AuthServiceImpl) EnrollCandidate(ctx context.Context, fullName, email, mobile string) (*domain.Account, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrAccountExists
	} else if unavailable := asUnavailable(err); unavailable != domain.ErrAccountNotFound {
		return nil, unavailable
	}
	if _, err := s.accounts.FindByMobile(ctx, mobile); err == nil {
		return nil, domain.ErrAccountExists
	} else if unavailable := asUnavailable(err); unavailable != domain.ErrAccountNotFound {
		return nil, unavailable
	}

	hash, err := s.passwordSvc.Hash(mobile)
	if err != nil {
		return nil, fmt.Errorf("failed to hash initial secret: %w", err)
	}

	account := &domain.Account{
		Email:        email,
		FullName:     fullName,
		Mobile:       mobile,
		PasswordHash: hash,
		Role:         domain.RoleCandidate,
		IsActive:     true,
		FirstLogin:   true,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, asUnavailable(err)
	}

	if err := s.notifySvc.SendEnrollmentNotice(mobile, email); err != nil {
		// Enrollment stands even if the notice fails; the admin sees the error.
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.CandidateEnrolledEvent, email, domain.RoleCandidate).WithError(err))
		return account, nil
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.CandidateEnrolledEvent, email, domain.RoleCandidate))
	return account, nil
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context) (*domain.Account, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, asUnavailable(err)
	}

	claims, err := s.tokenSvc.Validate(session.Token)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	account, err := s.accounts.FindByEmailAndRole(ctx, claims.Email, session.Role)
	if err != nil {
		return nil, asUnavailable(err)
	}
	return account, nil
}

// GetTrialStatus implements domain.TrialStatusProvider. Remaining time is
// computed against the server-side registration deadline, never from local
// elapsed-time arithmetic.
func (s *AuthServiceImpl) GetTrialStatus(ctx context.Context) (*domain.TrialStatus, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, asUnavailable(err)
	}
	if session.Role != domain.RoleTrial {
		return nil, domain.ErrInvalidSessionState
	}

	claims, err := s.tokenSvc.Validate(session.Token)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	account, err := s.accounts.FindByEmailAndRole(ctx, claims.Email, domain.RoleTrial)
	if err != nil {
		return nil, asUnavailable(err)
	}
	if account.TrialEndsAt == nil {
		return nil, domain.ErrInvalidSessionState
	}

	remaining := int64(time.Until(*account.TrialEndsAt).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &domain.TrialStatus{RemainingSeconds: remaining}, nil
}
