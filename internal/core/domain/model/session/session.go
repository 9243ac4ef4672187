// Package session contains per-(actor, role) conversation state: the current
// position in the role's state machine plus the accumulator of partially
// collected input. Sessions expire on a sliding TTL; an expired session is
// indistinguishable from a never-seen actor.
package session

import (
	"errors"
	"maps"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrSessionIsNotConstructed is returned when a Session instance was not
// created through NewSession or RestoreSession.
var ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession or RestoreSession")

// Accumulator keys used by the conversation drivers.
const (
	DataPhone   = "phone"
	DataLat     = "lat"
	DataLon     = "lon"
	DataAddress = "address"
	DataDetails = "details"
	DataPayment = "payment"
	DataOrderID = "order_id"
	DataEditing = "editing"
)

// Session is one actor's conversation state in one role context.
type Session struct {
	actorID   kernel.ActorID
	role      kernel.Role
	state     State
	data      map[string]string
	expiresAt time.Time

	isConstructed bool
}

// NewSession creates a fresh session at the role's initial state with an
// empty accumulator, expiring at now + ttl.
func NewSession(actorID kernel.ActorID, role kernel.Role, now time.Time, ttl time.Duration) (*Session, error) {
	if err := errors.Join(actorID.Validate(), role.Validate()); err != nil {
		return nil, err
	}

	return &Session{
		actorID:       actorID,
		role:          role,
		state:         InitialState(role),
		data:          map[string]string{},
		expiresAt:     now.Add(ttl),
		isConstructed: true,
	}, nil
}

// RestoreSession reconstructs a session from persistence.
func RestoreSession(
	actorID kernel.ActorID,
	role kernel.Role,
	state State,
	data map[string]string,
	expiresAt time.Time,
) (*Session, error) {
	if err := errors.Join(actorID.Validate(), role.Validate(), state.ValidateFor(role)); err != nil {
		return nil, err
	}

	if data == nil {
		data = map[string]string{}
	}

	return &Session{
		actorID:       actorID,
		role:          role,
		state:         state,
		data:          maps.Clone(data),
		expiresAt:     expiresAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Session was built through a constructor.
func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

// ActorID returns the owning actor.
func (s *Session) ActorID() kernel.ActorID { return s.actorID }

// Role returns the role context this session belongs to.
func (s *Session) Role() kernel.Role { return s.role }

// State returns the current conversation state.
func (s *Session) State() State { return s.state }

// ExpiresAt returns the absolute expiry time.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Expired reports whether the session is past its expiry and must be treated
// as absent.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

// MoveTo transitions the session to a state of its role's machine.
func (s *Session) MoveTo(state State) error {
	if err := state.ValidateFor(s.role); err != nil {
		return err
	}
	s.state = state
	return nil
}

// Value reads an accumulator entry; missing keys read as "".
func (s *Session) Value(key string) string {
	return s.data[key]
}

// Put stores an accumulator entry.
func (s *Session) Put(key, value string) {
	s.data[key] = value
}

// Delete removes an accumulator entry.
func (s *Session) Delete(key string) {
	delete(s.data, key)
}

// Data returns a copy of the accumulator.
func (s *Session) Data() map[string]string {
	return maps.Clone(s.data)
}

// Reset returns the session to the initial state with an empty accumulator,
// as when entering a new multi-step flow.
func (s *Session) Reset() {
	s.state = InitialState(s.role)
	s.data = map[string]string{}
}

// Touch slides the expiry to now + ttl. Every write through the store
// touches the session.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.expiresAt = now.Add(ttl)
}
