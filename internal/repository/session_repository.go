package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/persistence"
)

// SessionRepository holds the session slot of each client session: a
// snapshot of the user taken at login.
type SessionRepository interface {
	Set(ctx context.Context, sessionID string, user domain.User) error
	Get(ctx context.Context, sessionID string) (*domain.User, bool, error)
	Clear(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	backend persistence.Backend
	ttl     time.Duration
}

// NewSessionRepository returns a session store. Slots expire after ttl when
// the backend supports native expiry; token expiry covers the rest.
func NewSessionRepository(backend persistence.Backend, ttl time.Duration) SessionRepository {
	return &sessionRepository{backend: backend, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return SessionKeyPrefix + sessionID
}

func (r *sessionRepository) Set(ctx context.Context, sessionID string, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if exp, ok := r.backend.(persistence.Expirer); ok && r.ttl > 0 {
		return exp.PutWithTTL(ctx, sessionKey(sessionID), raw, r.ttl)
	}
	return r.backend.Put(ctx, sessionKey(sessionID), raw)
}

func (r *sessionRepository) Get(ctx context.Context, sessionID string) (*domain.User, bool, error) {
	raw, ok, err := r.backend.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, false, nil
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false, fmt.Errorf("decode session: %w", err)
	}
	return &user, true, nil
}

func (r *sessionRepository) Clear(ctx context.Context, sessionID string) error {
	return r.backend.Delete(ctx, sessionKey(sessionID))
}
