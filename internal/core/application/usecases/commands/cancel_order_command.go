package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels a non-terminal order. The record is kept: a
// cancelled order stays in the store with its reason for the admin history.
//
// requestedBy is the acting customer; when force is set (admin action or the
// pending-order timeout job) the ownership check is skipped and requestedBy
// may be zero.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	requestedBy kernel.ActorID
	reason      string
	force       bool

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand builds a customer-initiated cancellation. Ownership
// is verified against requestedBy.
func NewCancelOrderCommand(orderID kernel.UUID, requestedBy kernel.ActorID, reason string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		requestedBy.Validate(),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.requestedBy = requestedBy
	cmd.reason = reason
	return cmd, nil
}

// NewForceCancelOrderCommand builds an administrative cancellation that
// bypasses the ownership check.
func NewForceCancelOrderCommand(orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.reason = reason
	cmd.force = true
	return cmd, nil
}

// Validate ensures the command was created through a constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order being cancelled.
func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }

// RequestedBy returns the acting customer, zero for forced cancellations.
func (c CancelOrderCommand) RequestedBy() kernel.ActorID { return c.requestedBy }

// Reason returns the free-text cancellation reason, may be empty.
func (c CancelOrderCommand) Reason() string { return c.reason }

// Force reports whether the ownership check is bypassed.
func (c CancelOrderCommand) Force() bool { return c.force }
