// Package courier contains the courier registry record. Couriers are actors
// granted the courier role by an admin; the authoritative delivery state
// lives on the Order, not here.
package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrCourierIsNotConstructed is returned when a Courier instance was not
// created through NewCourier or RestoreCourier.
var ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")

// Courier is a registered delivery worker. Deactivated couriers keep their
// history but can no longer claim orders.
type Courier struct {
	id           kernel.ActorID
	name         string
	active       bool
	registeredAt time.Time

	isConstructed bool
}

// NewCourier registers an active courier.
func NewCourier(id kernel.ActorID, name string, registeredAt time.Time) (*Courier, error) {
	c := &Courier{
		active:        true,
		registeredAt:  registeredAt,
		isConstructed: true,
	}

	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a courier from persistence.
func RestoreCourier(id kernel.ActorID, name string, active bool, registeredAt time.Time) (*Courier, error) {
	c := &Courier{
		active:        active,
		registeredAt:  registeredAt,
		isConstructed: true,
	}

	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Courier was built through a constructor.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// ID returns the courier's actor identity.
func (c *Courier) ID() kernel.ActorID { return c.id }

// Name returns the display name used in admin listings.
func (c *Courier) Name() string { return c.name }

// IsActive reports whether the courier may claim orders.
func (c *Courier) IsActive() bool { return c.active }

// RegisteredAt returns when the courier was registered.
func (c *Courier) RegisteredAt() time.Time { return c.registeredAt }

// Deactivate removes the courier from the active pool without deleting the
// record.
func (c *Courier) Deactivate() {
	c.active = false
}

// Activate returns the courier to the active pool.
func (c *Courier) Activate() {
	c.active = true
}

func (c *Courier) setID(id kernel.ActorID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("courier name")
	}
	c.name = name
	return nil
}
