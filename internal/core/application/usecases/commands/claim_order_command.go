package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand is a courier's attempt to take a pending order.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.ActorID

	guard guard.ConstructorGuard
}

// NewClaimOrderCommand validates and assembles a claim request.
func NewClaimOrderCommand(orderID kernel.UUID, courierID kernel.ActorID) (ClaimOrderCommand, error) {
	cmd := ClaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		courierID.Validate(),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.courierID = courierID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

// OrderID returns the order being claimed.
func (c ClaimOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CourierID returns the claiming courier.
func (c ClaimOrderCommand) CourierID() kernel.ActorID { return c.courierID }
