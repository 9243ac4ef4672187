package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGrantRoleCommandIsNotConstructed = errors.New(
	"GrantRoleCommand must be created via NewGrantRoleCommand constructor",
)

// GrantRoleCommand records an explicit role assignment. Identity never
// implies a role: an actor is an admin because a grant row says so, not
// because their id matches a configured value at message time.
type GrantRoleCommand struct { //nolint:recvcheck //using for validation
	actorID kernel.ActorID
	role    kernel.Role

	guard guard.ConstructorGuard
}

// NewGrantRoleCommand validates and assembles a role grant.
func NewGrantRoleCommand(actorID kernel.ActorID, role kernel.Role) (GrantRoleCommand, error) {
	cmd := GrantRoleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		actorID.Validate(),
		role.Validate(),
	); err != nil {
		return GrantRoleCommand{}, err
	}

	cmd.actorID = actorID
	cmd.role = role
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c GrantRoleCommand) Validate() error {
	return c.guard.Validate(ErrGrantRoleCommandIsNotConstructed)
}

// ActorID returns the actor receiving the role.
func (c GrantRoleCommand) ActorID() kernel.ActorID { return c.actorID }

// Role returns the role being granted.
func (c GrantRoleCommand) Role() kernel.Role { return c.role }
