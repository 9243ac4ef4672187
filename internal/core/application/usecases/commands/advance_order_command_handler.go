package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AdvanceOrderCommandHandler progresses orders through delivery.
//
// Only the assigned courier progresses an order, so races are unlikely here,
// but the write is still conditional on the previous status: a concurrent
// cancellation surfaces as order.ErrNotAvailable instead of a lost update.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	now        func() time.Time
}

// NewAdvanceOrderCommandHandler creates a handler for delivery progress.
func NewAdvanceOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (h AdvanceOrderCommandHandler) WithClock(now func() time.Time) AdvanceOrderCommandHandler {
	h.now = now
	return h
}

// Handle verifies courier ownership, applies the transition and notifies the
// requester (and, on delivery, the admin channel for reconciliation).
func (h *AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (*order.Order, error) {
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

	switch cmd.NextStatus() {
	case order.Delivering:
		err = existing.StartDelivery(cmd.CourierID())
	case order.Delivered:
		err = existing.Complete(cmd.CourierID(), h.now())
	default:
		err = order.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	if err := orderRepo.UpdateWhereStatus(ctx, existing, previous); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	kind := ports.EventOrderDelivering
	if cmd.NextStatus() == order.Delivered {
		kind = ports.EventOrderDelivered
	}
	h.notifier.Notify(ctx, ports.OrderEvent{
		Kind:    kind,
		Order:   existing,
		Courier: existing.Courier(),
	})

	return existing, nil
}
