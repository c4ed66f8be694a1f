package services

import (
	"context"
	"log"
	"time"

	"github.com/you/assessauth/domain"
)

// AuditLoggerImpl implements domain.AuditLogger on the process log.
type AuditLoggerImpl struct{}

// NewAuditLogger creates a new audit logger
func NewAuditLogger() domain.AuditLogger {
	return &AuditLoggerImpl{}
}

// LogEvent implements domain.AuditLogger
func (l *AuditLoggerImpl) LogEvent(_ context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}
	if event.ErrorMsg != "" {
		log.Printf("%s: email=%s role=%s success=%v error=%q timestamp=%s",
			event.EventType, event.Email, event.Role, event.Success, event.ErrorMsg,
			event.Timestamp.Format(time.RFC3339))
		return
	}
	log.Printf("%s: email=%s role=%s success=%v timestamp=%s",
		event.EventType, event.Email, event.Role, event.Success,
		event.Timestamp.Format(time.RFC3339))
}
