package mocks

import "sync"

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendEnrollmentNoticeFunc func(mobile, email string) error

	mu   sync.Mutex
	sent []EnrollmentNotice
}

// EnrollmentNotice records a delivered notice for assertions
type EnrollmentNotice struct {
	Mobile string
	Email  string
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendEnrollmentNotice delivers the temporary-credential notice
func (m *MockNotificationService) SendEnrollmentNotice(mobile, email string) error {
	if m.SendEnrollmentNoticeFunc != nil {
		return m.SendEnrollmentNoticeFunc(mobile, email)
	}
	// Default behavior: record and succeed
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, EnrollmentNotice{Mobile: mobile, Email: email})
	return nil
}

// Sent returns the recorded notices
func (m *MockNotificationService) Sent() []EnrollmentNotice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EnrollmentNotice, len(m.sent))
	copy(out, m.sent)
	return out
}
