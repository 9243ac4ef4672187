package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The store is the only mutual-exclusion mechanism for orders: conflicting
// writers are resolved by conditional writes, never by application locks.
type OrderRepository interface {
	// Add persists a new order. Returns order.ErrActiveOrderExists when the
	// requester already owns an order in a non-terminal status.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByRequester retrieves the requester's order in a non-terminal
	// status, if any. Returns errs.ObjectNotFound when there is none.
	GetActiveByRequester(ctx context.Context, requesterID kernel.ActorID) (*order.Order, error)

	// GetActiveByCourier retrieves the order currently assigned to the
	// courier in Accepted or Delivering status.
	GetActiveByCourier(ctx context.Context, courierID kernel.ActorID) (*order.Order, error)

	// ListByStatus retrieves up to limit orders in the given status,
	// oldest first.
	ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)

	// ClaimPending performs the atomic claim: a single conditional update
	// that moves the order from Pending to Accepted, stamping courier id and
	// accepted-at. When the condition matches nothing (already claimed,
	// cancelled, or unknown id) it returns order.ErrNotAvailable and the
	// caller must re-fetch. Exactly one of N concurrent claimers succeeds.
	ClaimPending(ctx context.Context, id kernel.UUID, courierID kernel.ActorID, at time.Time) (*order.Order, error)

	// UpdateWhereStatus writes the aggregate conditionally on the stored
	// status still being expected. A concurrent change surfaces as
	// order.ErrNotAvailable instead of a lost update.
	UpdateWhereStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// CountByStatus returns order counts per status for statistics views.
	CountByStatus(ctx context.Context) (map[order.Status]int64, error)

	// ListPendingOlderThan retrieves pending orders created before the
	// cutoff, used by the timeout job.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}
