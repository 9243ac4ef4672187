package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterCourierCommandIsNotConstructed = errors.New(
	"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
)

// RegisterCourierCommand adds an actor to the courier registry and grants the
// courier role. Re-registering a deactivated courier reactivates the existing
// record.
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.ActorID
	name      string

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand validates and assembles a registration.
func NewRegisterCourierCommand(courierID kernel.ActorID, name string) (RegisterCourierCommand, error) {
	cmd := RegisterCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := courierID.Validate(); err != nil {
		return RegisterCourierCommand{}, err
	}
	if name == "" {
		return RegisterCourierCommand{}, errs.NewValueIsRequiredError("courier name")
	}

	cmd.courierID = courierID
	cmd.name = name
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

// CourierID returns the actor being registered.
func (c RegisterCourierCommand) CourierID() kernel.ActorID { return c.courierID }

// Name returns the display name for admin listings.
func (c RegisterCourierCommand) Name() string { return c.name }
