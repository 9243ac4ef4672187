package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CancelOrderCommandHandler cancels orders on behalf of customers, admins and
// the pending-order timeout job.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewCancelOrderCommandHandler creates a handler for cancellations.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle cancels the order and notifies the requester and, when one was
// assigned, the courier who just lost the job.
//
// Cancelling clears the courier assignment, so the pre-cancel assignment is
// captured for the notification before the transition runs. The write is
// conditional on the pre-cancel status; losing that race to a concurrent
// claim or progress write returns order.ErrNotAvailable and the caller
// retries against the fresh state.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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

	if !cmd.Force() && existing.RequesterID() != cmd.RequestedBy() {
		return nil, order.ErrOwnershipMismatch
	}

	previous := existing.Status()
	priorCourier := existing.Courier()

	if err := existing.Cancel(cmd.Reason()); err != nil {
		return nil, err
	}

	if err := orderRepo.UpdateWhereStatus(ctx, existing, previous); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, ports.OrderEvent{
		Kind:    ports.EventOrderCancelled,
		Order:   existing,
		Courier: priorCourier,
	})

	return existing, nil
}
