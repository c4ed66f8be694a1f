package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	LoginEvent        AuditEventType = "LOGIN"
	LoginFailureEvent AuditEventType = "LOGIN_FAILED"
	LogoutEvent       AuditEventType = "LOGOUT"

	// Lifecycle events
	CandidateEnrolledEvent   AuditEventType = "CANDIDATE_ENROLLED"
	OnboardingCompletedEvent AuditEventType = "ONBOARDING_COMPLETED"
	TrialRegisteredEvent     AuditEventType = "TRIAL_REGISTERED"
	TrialExpiredEvent        AuditEventType = "TRIAL_EXPIRED"

	// Authorization events
	AccessDeniedEvent AuditEventType = "ACCESS_DENIED"
)

// AuditEvent represents a session-lifecycle event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	Email     string                 `json:"email,omitempty"`
	Role      Role                   `json:"role,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, email string, role Role) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Email:     email,
		Role:      role,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}
