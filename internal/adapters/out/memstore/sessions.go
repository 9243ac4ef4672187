package memstore

import (
	"context"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/pkg/errs"
)

type sessionKey struct {
	actorID kernel.ActorID
	role    kernel.Role
}

// SessionStore is an in-memory SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*session.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[sessionKey]*session.Session{}}
}

func cloneSession(s *session.Session) *session.Session {
	clone, err := session.RestoreSession(s.ActorID(), s.Role(), s.State(), s.Data(), s.ExpiresAt())
	if err != nil {
		// A stored aggregate is valid by construction.
		panic(err)
	}
	return clone
}

// Find retrieves the stored session, expired or not.
func (s *SessionStore) Find(_ context.Context, actorID kernel.ActorID, role kernel.Role) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.sessions[sessionKey{actorID, role}]
	if !ok {
		return nil, errs.NewObjectNotFoundError("session", actorID.String()+"/"+role.String())
	}
	return cloneSession(existing), nil
}

// Save upserts the session record.
func (s *SessionStore) Save(_ context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionKey{aggregate.ActorID(), aggregate.Role()}] = cloneSession(aggregate)
	return nil
}

// Delete removes the session record. Idempotent.
func (s *SessionStore) Delete(_ context.Context, actorID kernel.ActorID, role kernel.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionKey{actorID, role})
	return nil
}

// DeleteExpired removes every session past its expiry.
func (s *SessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, existing := range s.sessions {
		if existing.Expired(now) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored records, expired included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
