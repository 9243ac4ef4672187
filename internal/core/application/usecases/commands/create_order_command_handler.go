package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CreateOrderCommandHandler creates pending orders.
//
// The single-active-order rule is enforced twice: a check inside the same
// transaction as the insert, and a store-level uniqueness constraint that
// closes the remaining race window between two coordinators. Either path
// surfaces as order.ErrActiveOrderExists.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (h CreateOrderCommandHandler) WithClock(now func() time.Time) CreateOrderCommandHandler {
	h.now = now
	return h
}

// Handle creates the order and announces it to the admin channel.
// Returns order.ErrActiveOrderExists when the requester already owns an
// order in a non-terminal status.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
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

	if _, err := orderRepo.GetActiveByRequester(ctx, cmd.RequesterID()); err == nil {
		return nil, order.ErrActiveOrderExists
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	newOrder, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.RequesterID(),
		cmd.Phone(),
		cmd.Location(),
		cmd.Details(),
		cmd.Payment(),
		h.now(),
	)
	if err != nil {
		return nil, err
	}

	if err := orderRepo.Add(ctx, newOrder); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, ports.OrderEvent{
		Kind:  ports.EventOrderCreated,
		Order: newOrder,
	})

	return newOrder, nil
}
