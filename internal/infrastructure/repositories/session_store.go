package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/assessauth/domain"
)

// SessionStoreImpl implements domain.SessionStore using Redis. It holds a
// single authoritative slot under a fixed key, so the session survives a
// full process reload; one logical session per deployment context.
type SessionStoreImpl struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSessionStore creates a new Redis-backed session store
func NewSessionStore(client *redis.Client, ttl time.Duration) domain.SessionStore {
	return &SessionStoreImpl{
		client: client,
		key:    "session:current",
		ttl:    ttl,
	}
}

// Set implements domain.SessionStore
func (s *SessionStoreImpl) Set(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}

// Get implements domain.SessionStore. An empty slot is reported as
// ErrSessionNotFound: callers must infer authentication state only from
// this store, never from request success elsewhere.
func (s *SessionStoreImpl) Get(ctx context.Context) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Update implements domain.SessionStore. The mutation is limited to flag and
// deadline refreshes; any role reassignment is rejected.
func (s *SessionStoreImpl) Update(ctx context.Context, fn func(domain.Session) domain.Session) (*domain.Session, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated := fn(*current)
	if updated.Role != current.Role {
		return nil, domain.ErrRoleImmutable
	}
	// A cleared first-login flag never comes back.
	if updated.FirstLoginPending && !current.FirstLoginPending {
		return nil, domain.ErrInvalidSessionState
	}

	if err := s.Set(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Clear implements domain.SessionStore
func (s *SessionStoreImpl) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
