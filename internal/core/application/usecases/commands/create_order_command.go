package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand carries everything the customer flow collected:
// contact phone, delivery location, free-text contents and payment method.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	requesterID kernel.ActorID
	phone       kernel.Phone
	location    kernel.Location
	details     string
	payment     order.Payment

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates and assembles an order-creation request.
func NewCreateOrderCommand(
	requesterID kernel.ActorID,
	phone kernel.Phone,
	location kernel.Location,
	details string,
	payment order.Payment,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRequesterID(requesterID),
		cmd.setPhone(phone),
		cmd.setLocation(location),
		cmd.setDetails(details),
		cmd.setPayment(payment),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// RequesterID returns the customer placing the order.
func (c CreateOrderCommand) RequesterID() kernel.ActorID { return c.requesterID }

// Phone returns the contact phone.
func (c CreateOrderCommand) Phone() kernel.Phone { return c.phone }

// Location returns the delivery destination.
func (c CreateOrderCommand) Location() kernel.Location { return c.location }

// Details returns the free-text order contents.
func (c CreateOrderCommand) Details() string { return c.details }

// Payment returns the payment method.
func (c CreateOrderCommand) Payment() order.Payment { return c.payment }

func (c *CreateOrderCommand) setRequesterID(id kernel.ActorID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}

func (c *CreateOrderCommand) setPhone(phone kernel.Phone) error {
	if err := phone.Validate(); err != nil {
		return err
	}
	c.phone = phone
	return nil
}

func (c *CreateOrderCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *CreateOrderCommand) setDetails(details string) error {
	if details == "" {
		return errors.New("order details are required")
	}
	c.details = details
	return nil
}

func (c *CreateOrderCommand) setPayment(payment order.Payment) error {
	if err := payment.Validate(); err != nil {
		return err
	}
	c.payment = payment
	return nil
}
