package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// RegisterCourierCommandHandler maintains the courier registry. Registration
// and the role grant happen in one transaction so an actor never ends up
// holding the courier role without a registry record.
type RegisterCourierCommandHandler struct {
	uowFactory UoWFactory
	now        func() time.Time
}

// NewRegisterCourierCommandHandler creates a handler for courier registration.
func NewRegisterCourierCommandHandler(uowFactory UoWFactory) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (h RegisterCourierCommandHandler) WithClock(now func() time.Time) RegisterCourierCommandHandler {
	h.now = now
	return h
}

// Handle registers the courier, reactivating a previously deactivated record
// instead of duplicating it, and grants the courier role.
func (h *RegisterCourierCommandHandler) Handle(ctx context.Context, cmd RegisterCourierCommand) (*courier.Courier, error) {
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

	courierRepo := uow.CourierRepository()

	registered, err := courierRepo.Get(ctx, cmd.CourierID())
	switch {
	case err == nil:
		registered.Activate()
		if err := courierRepo.Update(ctx, registered); err != nil {
			return nil, err
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		registered, err = courier.NewCourier(cmd.CourierID(), cmd.Name(), h.now())
		if err != nil {
			return nil, err
		}
		if err := courierRepo.Add(ctx, registered); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := uow.RoleRepository().Grant(ctx, cmd.CourierID(), kernel.RoleCourier); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return registered, nil
}
