package domain

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRegistrationConflict = errors.New("identifier already has a trial record")
	ErrServiceUnavailable   = errors.New("verification service unavailable")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountExists        = errors.New("account already exists")
	ErrAccountInactive      = errors.New("account is inactive")
)

// Password change errors
var (
	ErrWeakPassword     = errors.New("new password does not meet strength policy")
	ErrPasswordMismatch = errors.New("current password is incorrect")
	ErrNotPending       = errors.New("session has no pending password change")
)

// Session errors
var (
	ErrSessionNotFound     = errors.New("no active session")
	ErrSessionExpired      = errors.New("session has expired")
	ErrInvalidSessionState = errors.New("invalid session state")
	ErrRoleImmutable       = errors.New("session role cannot be reassigned")
	ErrUnknownRole         = errors.New("unknown role")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)
