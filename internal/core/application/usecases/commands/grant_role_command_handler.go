package commands

import (
	"context"
)

// GrantRoleCommandHandler writes the role table.
type GrantRoleCommandHandler struct {
	uowFactory UoWFactory
}

// NewGrantRoleCommandHandler creates a handler for role grants.
func NewGrantRoleCommandHandler(uowFactory UoWFactory) GrantRoleCommandHandler {
	return GrantRoleCommandHandler{uowFactory: uowFactory}
}

// Handle records the grant. Idempotent: granting an already-held role is a
// no-op success.
func (h *GrantRoleCommandHandler) Handle(ctx context.Context, cmd GrantRoleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.RoleRepository().Grant(ctx, cmd.ActorID(), cmd.Role()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
