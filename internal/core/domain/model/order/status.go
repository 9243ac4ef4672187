package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Accepted ──> Delivering ──> Delivered
//	   │            │             │
//	   ├──> Rejected│             │
//	   └────────────┴─────────────┴──> Cancelled
//
// Delivered, Cancelled and Rejected are terminal: no transition leaves them.
// Rejected is reachable only from Pending (vendor/admin declined).
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: created, waiting to be claimed.
	Pending

	// Accepted means exactly one courier has claimed the order.
	Accepted

	// Delivering means the assigned courier has picked the order up.
	Delivering

	// Delivered is the successful terminal status.
	Delivered

	// Cancelled is the terminal status reached by cancellation from any
	// non-terminal state.
	Cancelled

	// Rejected is the terminal status reached when a vendor or admin
	// declines a pending order.
	Rejected
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Accepted:   "Accepted",
		Delivering: "Delivering",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
		Rejected:   "Rejected",
	}
}

// Validate checks that the Status is one of the defined lifecycle values.
// Unknown (0) and out-of-range values are invalid. Used when reconstructing
// orders from persistence.
func (s Status) Validate() error {
	if s < Pending || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Safe to call on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition may leave this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Rejected
}

// IsActive reports whether the status counts against the single-active-order
// rule for a requester.
func (s Status) IsActive() bool {
	return s == Pending || s == Accepted || s == Delivering
}

// Accept transitions Pending to Accepted. Any other source status is a
// conflict: the order was already claimed, finished or withdrawn.
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return 0, ErrNotAvailable
	}
	return Accepted, nil
}

// StartDelivery transitions Accepted to Delivering.
func (s Status) StartDelivery() (Status, error) {
	if s.IsTerminal() {
		return 0, ErrAlreadyTerminal
	}
	if s != Accepted {
		return 0, ErrInvalidTransition
	}
	return Delivering, nil
}

// Complete transitions Delivering to Delivered.
func (s Status) Complete() (Status, error) {
	if s.IsTerminal() {
		return 0, ErrAlreadyTerminal
	}
	if s != Delivering {
		return 0, ErrInvalidTransition
	}
	return Delivered, nil
}

// Cancel transitions any non-terminal status to Cancelled.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, ErrAlreadyTerminal
	}
	return Cancelled, nil
}

// Reject transitions Pending to Rejected.
func (s Status) Reject() (Status, error) {
	if s.IsTerminal() {
		return 0, ErrAlreadyTerminal
	}
	if s != Pending {
		return 0, ErrInvalidTransition
	}
	return Rejected, nil
}

// ValidateCanHaveCourier validates consistency between status and courier
// assignment: a courier is present if and only if the status is Accepted,
// Delivering or Delivered. Cancellation clears the assignment.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	requiresCourier := s == Accepted || s == Delivering || s == Delivered

	if courier && !requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s must not have a courier", s))
	}

	if !courier && requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s must have a courier", s))
	}

	return nil
}
