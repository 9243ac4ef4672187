package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// RemoveCourierCommandHandler deactivates couriers. A courier carrying an
// active order cannot be removed; the admin resolves the order first.
type RemoveCourierCommandHandler struct {
	uowFactory UoWFactory
}

// NewRemoveCourierCommandHandler creates a handler for courier removal.
func NewRemoveCourierCommandHandler(uowFactory UoWFactory) RemoveCourierCommandHandler {
	return RemoveCourierCommandHandler{uowFactory: uowFactory}
}

// Handle deactivates the courier and revokes the courier role. Returns
// order.ErrActiveOrderExists while the courier still carries an assignment.
func (h *RemoveCourierCommandHandler) Handle(ctx context.Context, cmd RemoveCourierCommand) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.OrderRepository().GetActiveByCourier(ctx, cmd.CourierID()); err == nil {
		return nil, order.ErrActiveOrderExists
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	courierRepo := uow.CourierRepository()

	registered, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}

	registered.Deactivate()
	if err := courierRepo.Update(ctx, registered); err != nil {
		return nil, err
	}

	if err := uow.RoleRepository().Revoke(ctx, cmd.CourierID(), kernel.RoleCourier); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return registered, nil
}
