package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the dispatch domain: the single mutable
// resource all three roles coordinate around.
//
// Invariants:
//   - courier id is non-nil if and only if status is Accepted, Delivering or Delivered
//   - acceptedAt is set exactly once, on the Pending -> Accepted transition
//   - deliveredAt is set exactly once, on the -> Delivered transition
//   - no mutation after a terminal status is reached
//
// The single-active-order-per-requester rule spans records and is enforced by
// the store, not by the aggregate.
type Order struct {
	id          kernel.UUID
	requesterID kernel.ActorID
	phone       kernel.Phone
	location    kernel.Location
	details     string
	payment     Payment

	// amount is the order total in the smallest currency unit.
	// Zero until the pricing integration fills it in.
	amount int64

	status    Status
	courierID *kernel.ActorID
	reason    string

	createdAt   time.Time
	acceptedAt  *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewOrder creates a Pending order with no courier assigned.
// All parameters are validated; details must be non-empty.
func NewOrder(
	id kernel.UUID,
	requesterID kernel.ActorID,
	phone kernel.Phone,
	location kernel.Location,
	details string,
	payment Payment,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRequesterID(requesterID),
		o.setPhone(phone),
		o.setLocation(location),
		o.setDetails(details),
		o.setPayment(payment),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// creation transitions. The courier/status consistency invariant is still
// checked so a corrupted row fails loudly instead of flowing downstream.
func RestoreOrder(
	id kernel.UUID,
	requesterID kernel.ActorID,
	phone kernel.Phone,
	location kernel.Location,
	details string,
	payment Payment,
	amount int64,
	status Status,
	courierID *kernel.ActorID,
	reason string,
	createdAt time.Time,
	acceptedAt *time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return nil, err
	}

	o := &Order{
		status:        status,
		amount:        amount,
		courierID:     courierID,
		reason:        reason,
		createdAt:     createdAt,
		acceptedAt:    acceptedAt,
		deliveredAt:   deliveredAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRequesterID(requesterID),
		o.setPhone(phone),
		o.setLocation(location),
		o.setDetails(details),
		o.setPayment(payment),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// RequesterID returns the customer who placed the order.
func (o *Order) RequesterID() kernel.ActorID { return o.requesterID }

// Phone returns the requester's contact phone.
func (o *Order) Phone() kernel.Phone { return o.phone }

// Location returns the delivery destination.
func (o *Order) Location() kernel.Location { return o.location }

// Details returns the free-text order contents.
func (o *Order) Details() string { return o.details }

// Payment returns the payment method.
func (o *Order) Payment() Payment { return o.payment }

// Amount returns the order total in the smallest currency unit.
func (o *Order) Amount() int64 { return o.amount }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Courier returns the assigned courier, nil while unassigned.
func (o *Order) Courier() *kernel.ActorID { return o.courierID }

// Reason returns the cancellation/rejection reason, empty otherwise.
func (o *Order) Reason() string { return o.reason }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// AcceptedAt returns when the order was claimed, nil while pending.
func (o *Order) AcceptedAt() *time.Time { return o.acceptedAt }

// DeliveredAt returns when the order was delivered, nil before that.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// SetAmount records the priced total. Allowed only before a terminal status.
func (o *Order) SetAmount(amount int64) error {
	if o.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if amount < 0 {
		return errs.NewValueIsInvalidError("amount")
	}
	o.amount = amount
	return nil
}

// Accept assigns the order to a courier and stamps acceptedAt.
// Only valid from Pending; anything else returns ErrNotAvailable. The store
// performs this transition as a single conditional write, the aggregate
// method carries the same rule for in-memory execution.
func (o *Order) Accept(courierID kernel.ActorID, at time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = &courierID
	o.acceptedAt = &at
	return nil
}

// StartDelivery marks the order as picked up by the assigned courier.
func (o *Order) StartDelivery(courierID kernel.ActorID) error {
	if err := o.verifyOwnership(courierID); err != nil {
		return err
	}

	newStatus, err := o.status.StartDelivery()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Complete marks the order as delivered by the assigned courier and stamps
// deliveredAt.
func (o *Order) Complete(courierID kernel.ActorID, at time.Time) error {
	if err := o.verifyOwnership(courierID); err != nil {
		return err
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveredAt = &at
	return nil
}

// Cancel moves any non-terminal order to Cancelled. No ownership check:
// the requester, an admin or timeout logic may cancel. The courier
// assignment is cleared to keep the courier/status invariant.
func (o *Order) Cancel(reason string) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = nil
	o.reason = reason
	return nil
}

// Reject declines a pending order. A reason is required.
func (o *Order) Reject(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("rejection reason")
	}

	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.reason = reason
	return nil
}

func (o *Order) verifyOwnership(courierID kernel.ActorID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if o.courierID == nil || *o.courierID != courierID {
		return ErrOwnershipMismatch
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRequesterID(id kernel.ActorID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.requesterID = id
	return nil
}

func (o *Order) setPhone(phone kernel.Phone) error {
	if err := phone.Validate(); err != nil {
		return err
	}
	o.phone = phone
	return nil
}

func (o *Order) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}

func (o *Order) setDetails(details string) error {
	if details == "" {
		return errs.NewValueIsRequiredError("order details")
	}
	o.details = details
	return nil
}

func (o *Order) setPayment(payment Payment) error {
	if err := payment.Validate(); err != nil {
		return err
	}
	o.payment = payment
	return nil
}
