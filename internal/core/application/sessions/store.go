// Package sessions implements the session store contract on top of a
// SessionRepository: reads past expiry transparently recreate a fresh session
// at the role's initial state, and every write slides the expiry forward.
package sessions

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DefaultTTL is the sliding session lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

// Store wraps a SessionRepository with the TTL semantics of the
// conversation layer.
type Store struct {
	repo ports.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewStore creates a session store with the given sliding TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewStore(repo ports.SessionRepository, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{repo: repo, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// TTL returns the configured sliding lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the live session for (actor, role). An absent or expired
// record yields a fresh session at the role's initial state with an empty
// accumulator, indistinguishable from a never-seen actor. The fresh session
// is not persisted until the first Set.
func (s *Store) Get(ctx context.Context, actorID kernel.ActorID, role kernel.Role) (*session.Session, error) {
	now := s.now()

	existing, err := s.repo.Find(ctx, actorID, role)
	switch {
	case err == nil && !existing.Expired(now):
		return existing, nil
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	return session.NewSession(actorID, role, now, s.ttl)
}

// Set upserts the session and slides its expiry to now + TTL.
func (s *Store) Set(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	aggregate.Touch(s.now(), s.ttl)
	return s.repo.Save(ctx, aggregate)
}

// Drop removes the session record, forcing the next Get to start fresh.
func (s *Store) Drop(ctx context.Context, actorID kernel.ActorID, role kernel.Role) error {
	return s.repo.Delete(ctx, actorID, role)
}
