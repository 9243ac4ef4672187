package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand is an administrative decline of a pending order.
// Unlike cancellation it only applies to Pending and the reason is mandatory,
// because the requester is told why.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewRejectOrderCommand validates and assembles a rejection.
func NewRejectOrderCommand(orderID kernel.UUID, reason string) (RejectOrderCommand, error) {
	cmd := RejectOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return RejectOrderCommand{}, err
	}
	if reason == "" {
		return RejectOrderCommand{}, errs.NewValueIsRequiredError("rejection reason")
	}

	cmd.orderID = orderID
	cmd.reason = reason
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

// OrderID returns the order being rejected.
func (c RejectOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the mandatory rejection reason.
func (c RejectOrderCommand) Reason() string { return c.reason }
