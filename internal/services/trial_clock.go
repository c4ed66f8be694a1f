package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/you/assessauth/domain"
)

// TrialClockState is the state of the trial countdown state machine.
type TrialClockState int

const (
	ClockInactive TrialClockState = iota
	ClockRunning
	ClockExpired
)

func (s TrialClockState) String() string {
	switch s {
	case ClockInactive:
		return "inactive"
	case ClockRunning:
		return "running"
	case ClockExpired:
		return "expired"
	}
	return "unknown"
}

// TrialClock tracks remaining trial entitlement against a server-reported
// deadline. It re-queries the server on a fixed interval; the server value
// is always authoritative, so client clock drift never shortens or extends
// a trial. Expired is terminal for the session that expired; a new trial
// registration replaces the cleared slot and starts a fresh countdown.
type TrialClock struct {
	statusSvc domain.TrialStatusProvider
	sessions  domain.SessionStore
	audit     domain.AuditLogger

	interval  time.Duration
	threshold int

	mu        sync.Mutex
	state     TrialClockState
	deadline  time.Time
	failures  int
	cancel    context.CancelFunc
	lastToken string
}

// storeClearTimeout bounds the session teardown on expiry, which runs on its
// own context because the polling context is being cancelled at that moment.
const storeClearTimeout = 5 * time.Second

// NewTrialClock creates a new trial clock. threshold is the number of
// consecutive failed polls tolerated before the trial is force-expired.
func NewTrialClock(statusSvc domain.TrialStatusProvider, sessions domain.SessionStore, audit domain.AuditLogger, interval time.Duration, threshold int) *TrialClock {
	return &TrialClock{
		statusSvc: statusSvc,
		sessions:  sessions,
		audit:     audit,
		interval:  interval,
		threshold: threshold,
		state:     ClockInactive,
	}
}

// Start transitions Inactive -> Running and begins polling. The deadline is
// taken verbatim from the session the server issued. Expiry is terminal for
// the session that expired: restarting it is an error, while a brand-new
// trial session arriving after the slot was cleared begins a fresh countdown.
func (c *TrialClock) Start(ctx context.Context, session *domain.Session) error {
	if session == nil || session.Role != domain.RoleTrial || session.TrialDeadline == nil {
		return domain.ErrInvalidSessionState
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case ClockExpired:
		if session.Token == c.lastToken {
			return domain.ErrSessionExpired
		}
	case ClockRunning:
		// Already counting down; a repeat login refreshes the deadline.
		c.deadline = *session.TrialDeadline
		return nil
	}

	c.state = ClockRunning
	c.lastToken = session.Token
	c.deadline = *session.TrialDeadline
	c.failures = 0

	pollCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(pollCtx)
	return nil
}

// run is the cooperative polling loop. Polls execute synchronously on this
// goroutine, so at most one is ever in flight; ticks that fire while a slow
// poll is outstanding are dropped by the ticker, not queued.
func (c *TrialClock) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := c.poll(ctx); done {
				return
			}
		}
	}
}

// poll executes one server re-query and applies the state machine
// transitions. It returns true once the clock has reached a terminal state.
func (c *TrialClock) poll(ctx context.Context) bool {
	status, err := c.statusSvc.GetTrialStatus(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ClockRunning {
		return true
	}

	switch {
	case errors.Is(err, domain.ErrServiceUnavailable):
		// A single transient failure must not expire a live trial; assume
		// still running and retry next interval, up to the threshold.
		c.failures++
		if c.failures >= c.threshold {
			c.expireLocked(domain.ErrServiceUnavailable)
			return true
		}
		return false
	case err != nil:
		// The poll itself failed authorization: the session slot is gone or
		// no longer a trial. Expire immediately.
		c.expireLocked(err)
		return true
	case status.Expired():
		c.expireLocked(nil)
		return true
	default:
		c.failures = 0
		c.deadline = time.Now().Add(time.Duration(status.RemainingSeconds) * time.Second).UTC()
		fresh := c.deadline
		if _, err := c.sessions.Update(ctx, func(s domain.Session) domain.Session {
			s.TrialDeadline = &fresh
			return s
		}); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			c.failures++
		}
		return false
	}
}

// expireLocked transitions to the terminal Expired state and invalidates the
// session slot. The teardown must not ride on the polling context, which is
// cancelled here; it gets its own bounded context. Callers must hold c.mu.
func (c *TrialClock) expireLocked(cause error) {
	c.state = ClockExpired
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeClearTimeout)
	defer cancel()

	event := domain.NewAuditEvent(domain.TrialExpiredEvent, "", domain.RoleTrial)
	if cause != nil {
		event = event.WithError(cause)
	}
	if err := c.sessions.Clear(ctx); err != nil {
		// The slot outlives the entitlement until its TTL; record it.
		event = event.WithMetadata("store_clear_error", err.Error())
	}
	c.audit.LogEvent(ctx, event)
}

// Stop cancels the polling timer without expiring the trial. Navigating
// away from the trial experience or logging out must call this so a stale
// expiry cannot fire against a cleared store.
func (c *TrialClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.state == ClockRunning {
		c.state = ClockInactive
	}
}

// State returns the current state of the clock.
func (c *TrialClock) State() TrialClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Deadline returns the most recently observed server deadline.
func (c *TrialClock) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline
}
