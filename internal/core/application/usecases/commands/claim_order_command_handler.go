package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ClaimOrderCommandHandler resolves the defining race of the system: N
// couriers pressing "claim" on the same pending order. The whole transition
// is a single conditional write in the store; there is no read-modify-write
// and no application-level lock. First writer wins, everyone else gets
// order.ErrNotAvailable and must re-fetch the list.
type ClaimOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	now        func() time.Time
}

// NewClaimOrderCommandHandler creates a handler for courier claims.
func NewClaimOrderCommandHandler(uowFactory UoWFactory, notifier ports.Notifier) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (h ClaimOrderCommandHandler) WithClock(now func() time.Time) ClaimOrderCommandHandler {
	h.now = now
	return h
}

// Handle claims the order for the courier and tells the requester.
//
// Before claiming, the courier must be a registered, active courier with no
// other active assignment; both checks are advisory (couriers are slow,
// orders are contended) and the claim itself stays correct without them.
func (h *ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
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

	registered, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}
	if !registered.IsActive() {
		return nil, errs.NewValueIsInvalidError("courier is deactivated")
	}

	orderRepo := uow.OrderRepository()

	if _, err := orderRepo.GetActiveByCourier(ctx, cmd.CourierID()); err == nil {
		return nil, order.ErrActiveOrderExists
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	claimed, err := orderRepo.ClaimPending(ctx, cmd.OrderID(), cmd.CourierID(), h.now())
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, ports.OrderEvent{
		Kind:    ports.EventOrderClaimed,
		Order:   claimed,
		Courier: claimed.Courier(),
	})

	return claimed, nil
}
