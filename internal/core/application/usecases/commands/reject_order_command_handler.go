package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// RejectOrderCommandHandler declines pending orders on behalf of admins.
type RejectOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewRejectOrderCommandHandler creates a handler for rejections.
func NewRejectOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle rejects the order and tells the requester why. The write is
// conditional on Pending; an order claimed in the meantime returns
// order.ErrNotAvailable.
func (h *RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) (*order.Order, error) {
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

	orderRepo := uow.OrderRepository()

	existing, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	previous := existing.Status()

	if err := existing.Reject(cmd.Reason()); err != nil {
		return nil, err
	}

	if err := orderRepo.UpdateWhereStatus(ctx, existing, previous); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, ports.OrderEvent{
		Kind:  ports.EventOrderRejected,
		Order: existing,
	})

	return existing, nil
}
