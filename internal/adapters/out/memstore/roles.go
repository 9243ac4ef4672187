package memstore

import (
	"context"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
)

type roleKey struct {
	actorID kernel.ActorID
	role    kernel.Role
}

// RoleStore is an in-memory RoleRepository.
type RoleStore struct {
	mu    sync.RWMutex
	roles map[roleKey]struct{}
}

// NewRoleStore creates an empty in-memory role table.
func NewRoleStore() *RoleStore {
	return &RoleStore{roles: map[roleKey]struct{}{}}
}

// Grant assigns a role to an actor. Idempotent.
func (s *RoleStore) Grant(_ context.Context, actorID kernel.ActorID, role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[roleKey{actorID, role}] = struct{}{}
	return nil
}

// Revoke removes a role assignment. Idempotent.
func (s *RoleStore) Revoke(_ context.Context, actorID kernel.ActorID, role kernel.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.roles, roleKey{actorID, role})
	return nil
}

// Has reports whether the actor holds the role.
func (s *RoleStore) Has(_ context.Context, actorID kernel.ActorID, role kernel.Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.roles[roleKey{actorID, role}]
	return ok, nil
}
