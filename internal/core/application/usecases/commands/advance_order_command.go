package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand progresses an accepted order along the happy path:
// Accepted -> Delivering or Delivering -> Delivered. Only the assigned
// courier may progress an order.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	courierID  kernel.ActorID
	nextStatus order.Status

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand validates and assembles a progress request.
// nextStatus must be Delivering or Delivered; the transition itself is
// checked against the current status by the state machine.
func NewAdvanceOrderCommand(
	orderID kernel.UUID,
	courierID kernel.ActorID,
	nextStatus order.Status,
) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		courierID.Validate(),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	if nextStatus != order.Delivering && nextStatus != order.Delivered {
		return AdvanceOrderCommand{}, order.ErrInvalidTransition
	}

	cmd.orderID = orderID
	cmd.courierID = courierID
	cmd.nextStatus = nextStatus
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

// OrderID returns the order being progressed.
func (c AdvanceOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CourierID returns the acting courier.
func (c AdvanceOrderCommand) CourierID() kernel.ActorID { return c.courierID }

// NextStatus returns the requested target status.
func (c AdvanceOrderCommand) NextStatus() order.Status { return c.nextStatus }
