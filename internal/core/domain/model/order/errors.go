package order

import "errors"

// Conflict and terminal-state sentinels produced by the order state machine.
// Callers branch on these with errors.Is; each one maps to a distinct
// user-facing recovery message at the conversation boundary.
var (
	// ErrActiveOrderExists is returned on creation when the requester
	// already owns an order in a non-terminal status.
	ErrActiveOrderExists = errors.New("requester already has an active order")

	// ErrNotAvailable is returned when a claim or a conditional status
	// write matched nothing: another actor changed the order first.
	// The caller must re-fetch, never assume success.
	ErrNotAvailable = errors.New("order is not available")

	// ErrOwnershipMismatch is returned when a courier other than the
	// assigned one attempts to progress an order.
	ErrOwnershipMismatch = errors.New("order is assigned to a different courier")

	// ErrAlreadyTerminal is returned on cancel/advance of an order that
	// has already reached Delivered, Cancelled or Rejected.
	ErrAlreadyTerminal = errors.New("order is already in a terminal status")

	// ErrInvalidTransition is returned for transitions the state machine
	// does not define, e.g. completing an order never picked up.
	ErrInvalidTransition = errors.New("invalid order status transition")
)
