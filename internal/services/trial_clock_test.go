package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/assessauth/domain"
	"github.com/you/assessauth/internal/infrastructure/repositories"
	"github.com/you/assessauth/internal/mocks"
)

// Tests drive the state machine by invoking polls directly; the interval is
// kept large so the background ticker never interferes.
func newTestClock(t *testing.T, status *mocks.MockTrialStatusProvider) (*TrialClock, *mocks.MockSessionStore, *mocks.MockAuditLogger) {
	t.Helper()
	sessions := mocks.NewMockSessionStore()
	audit := mocks.NewMockAuditLogger()
	clock := NewTrialClock(status, sessions, audit, time.Hour, 3)
	return clock, sessions, audit
}

func startedClock(t *testing.T, status *mocks.MockTrialStatusProvider) (*TrialClock, *mocks.MockSessionStore, *mocks.MockAuditLogger) {
	t.Helper()
	clock, sessions, audit := newTestClock(t, status)

	deadline := time.Now().Add(time.Hour).UTC()
	session, err := domain.NewSession("tok:trial@example.com:trial", domain.RoleTrial, false, &deadline)
	require.NoError(t, err)
	require.NoError(t, sessions.Set(context.Background(), session))
	require.NoError(t, clock.Start(context.Background(), session))
	t.Cleanup(clock.Stop)

	return clock, sessions, audit
}

func TestTrialClock_StartValidation(t *testing.T) {
	clock, _, _ := newTestClock(t, mocks.NewMockTrialStatusProvider())

	assert.Equal(t, ClockInactive, clock.State())

	err := clock.Start(context.Background(), nil)
	assert.Equal(t, domain.ErrInvalidSessionState, err)

	adminSession, _ := domain.NewSession("tok", domain.RoleAdmin, false, nil)
	err = clock.Start(context.Background(), adminSession)
	assert.Equal(t, domain.ErrInvalidSessionState, err)

	assert.Equal(t, ClockInactive, clock.State())
}

func TestTrialClock_StartTakesDeadlineVerbatim(t *testing.T) {
	status := mocks.NewMockTrialStatusProvider()
	clock, _, _ := startedClock(t, status)

	assert.Equal(t, ClockRunning, clock.State())
	assert.False(t, clock.Deadline().IsZero())
}

func TestTrialClock_SuccessfulPollRefreshesDeadline(t *testing.T) {
	status := mocks.NewMockTrialStatusProvider()
	status.Results = []mocks.TrialStatusResult{
		{Status: &domain.TrialStatus{RemainingSeconds: 1800}},
	}
	clock, sessions, _ := startedClock(t, status)

	before := clock.Deadline()
	done := clock.poll(context.Background())

	assert.False(t, done)
	assert.Equal(t, ClockRunning, clock.State())
	assert.True(t, clock.Deadline().Before(before), "server-reported remaining should shorten the deadline")

	// The fresh deadline is written back to the session store.
	session, err := sessions.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session.TrialDeadline)
	assert.WithinDuration(t, clock.Deadline(), *session.TrialDeadline, time.Second)
}

func TestTrialClock_ZeroRemainingExpiresAndClearsStore(t *testing.T) {
	status := mocks.NewMockTrialStatusProvider()
	status.Results = []mocks.TrialStatusResult{
		{Status: &domain.TrialStatus{RemainingSeconds: 0}},
	}
	clock, sessions, audit := startedClock(t, status)

	done := clock.poll(context.Background())

	assert.True(t, done)
	assert.Equal(t, ClockExpired, clock.State())

	_, err := sessions.Get(context.Background())
	assert.Equal(t, domain.ErrSessionNotFound, err)

	// With the store cleared, the route guard bounces every destination.
	guard := NewRouteGuard()
	dest := domain.Destination{Path: "/trial/assessment", RequiredRole: domain.RoleTrial}
	assert.Equal(t, domain.DecisionRedirectLogin, guard.Decide(nil, dest))

	events := audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.TrialExpiredEvent, events[0].EventType)
}

// Expiry through the real ticker loop against a Redis-backed store: the
// teardown must survive the polling context being cancelled mid-expiry.
func TestTrialClock_TickerExpiryClearsRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := repositories.NewSessionStore(client, time.Hour)

	status := mocks.NewMockTrialStatusProvider()
	status.Results = []mocks.TrialStatusResult{
		{Status: &domain.TrialStatus{RemainingSeconds: 0}},
	}

	audit := mocks.NewMockAuditLogger()
	clock := NewTrialClock(status, store, audit, 10*time.Millisecond, 3)

	deadline := time.Now().Add(time.Hour).UTC()
	session, err := domain.NewSession("tok:trial@example.com:trial", domain.RoleTrial, false, &deadline)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), session))
	require.NoError(t, clock.Start(context.Background(), session))
	t.Cleanup(clock.Stop)

	require.Eventually(t, func() bool {
		return clock.State() == ClockExpired
	}, 2*time.Second, 10*time.Millisecond, "ticker-driven poll should expire the trial")

	_, err = store.Get(context.Background())
	assert.Equal(t, domain.ErrSessionNotFound, err, "session store must be cleared when the trial expires")

	guard := NewRouteGuard()
	dest := domain.Destination{Path: "/trial/assessment", RequiredRole: domain.RoleTrial}
	assert.Equal(t, domain.DecisionRedirectLogin, guard.Decide(nil, dest))
}

func TestTrialClock_AuthorizationFailureExpiresImmediately(t *testing.T) {
	status := mocks.NewMockTrialStatusProvider()
	status.Results = []mocks.TrialStatusResult{
		{Err: domain.ErrSessionNotFound},
	}
	clock, _, _ := startedClock(t, status)

	done := clock.poll(context.Background())

	assert.True(t, done)
	assert.Equal(t, ClockExpired, clock.State())
}

func TestTrialClock_TransientFailuresToleratedUntilThreshold(t *testing.T) {
	status := mocks.NewMockTrialStatusProvider()
	status.Results = []mocks.TrialStatusResult{
		{Err: domain.ErrServiceUnavailable},
		{Err: domain.ErrServiceUnavailable},
		{Err: domain.ErrServiceUnavailable},
	}
	clock, sessions, _ := startedClock(t, status)

	// First and second failures: still running, session intact.
	assert.False(t, clock.poll(context.Background()))
	assert.Equal(t, ClockRunning, clock.State())
	assert.False(t, clock.poll(context.Background()))
	assert.Equal(t, ClockRunning, clock.State())

	if _, err := sessions.Get(context.Background()); err != nil {
		t.Fatal("a transient failure must not expire a live trial")
	}

	// Third consecutive failure crosses the threshold.
	assert.True(t, clock.poll(context.Background()))
	assert.Equal(t, ClockExpired, clock.State())

	_, err := sessions.Get(context.Background())
	assert.Equal(t, domain.ErrSessionNotFound, err)
}

func TestTrialClock_SuccessResetsFailureCount(t *testing.T) {
	status := mocks.NewMockTrialStatusProvider()
	status.Results = []mocks.TrialStatusResult{
		{Err: domain.ErrServiceUnavailable},
		{Err: domain.ErrServiceUnavailable},
		{Status: &domain.TrialStatus{RemainingSeconds: 600}},
		{Err: domain.ErrServiceUnavailable},
		{Err: domain.ErrServiceUnavailable},
	}
	clock, _, _ := startedClock(t, status)

	for i := 0; i < 5; i++ {
		clock.poll(context.Background())
	}

	// Two failures, a success, then only two more failures: under threshold.
	assert.Equal(t, ClockRunning, clock.State())
}

func TestTrialClock_ExpiryIsTerminalPerSession(t *testing.T) {
	status := mocks.NewMockTrialStatusProvider()
	status.Results = []mocks.TrialStatusResult{
		{Status: &domain.TrialStatus{RemainingSeconds: 0}},
		{Status: &domain.TrialStatus{RemainingSeconds: 1800}},
	}
	clock, sessions, _ := startedClock(t, status)

	clock.poll(context.Background())
	require.Equal(t, ClockExpired, clock.State())

	// Further polls are no-ops.
	assert.True(t, clock.poll(context.Background()))
	assert.Equal(t, ClockExpired, clock.State())

	// The session that expired cannot be restarted.
	deadline := time.Now().Add(time.Hour).UTC()
	expired, _ := domain.NewSession("tok:trial@example.com:trial", domain.RoleTrial, false, &deadline)
	err := clock.Start(context.Background(), expired)
	assert.Equal(t, domain.ErrSessionExpired, err)
	assert.Equal(t, ClockExpired, clock.State())

	// A brand-new trial session replacing the cleared slot begins a fresh
	// countdown: expiry is terminal for a session, not for the process.
	fresh, err := domain.NewSession("tok:next-trial@example.com:trial", domain.RoleTrial, false, &deadline)
	require.NoError(t, err)
	require.NoError(t, sessions.Set(context.Background(), fresh))
	require.NoError(t, clock.Start(context.Background(), fresh))
	t.Cleanup(clock.Stop)

	assert.Equal(t, ClockRunning, clock.State())
	assert.False(t, clock.poll(context.Background()), "the new session must be polled again")
	assert.Equal(t, ClockRunning, clock.State())
}

func TestTrialClock_StopCancelsWithoutExpiry(t *testing.T) {
	status := mocks.NewMockTrialStatusProvider()
	clock, sessions, _ := startedClock(t, status)

	clock.Stop()

	assert.Equal(t, ClockInactive, clock.State())
	if _, err := sessions.Get(context.Background()); err != nil {
		t.Fatal("Stop must not clear the session store")
	}
}
