package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRemoveCourierCommandIsNotConstructed = errors.New(
	"RemoveCourierCommand must be created via NewRemoveCourierCommand constructor",
)

// RemoveCourierCommand deactivates a courier and revokes the courier role.
// The registry record and delivery history are kept.
type RemoveCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.ActorID

	guard guard.ConstructorGuard
}

// NewRemoveCourierCommand validates and assembles a removal.
func NewRemoveCourierCommand(courierID kernel.ActorID) (RemoveCourierCommand, error) {
	cmd := RemoveCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := courierID.Validate(); err != nil {
		return RemoveCourierCommand{}, err
	}

	cmd.courierID = courierID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RemoveCourierCommand) Validate() error {
	return c.guard.Validate(ErrRemoveCourierCommandIsNotConstructed)
}

// CourierID returns the courier being removed.
func (c RemoveCourierCommand) CourierID() kernel.ActorID { return c.courierID }
