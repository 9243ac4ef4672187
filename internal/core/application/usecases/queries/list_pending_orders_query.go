// Package queries contains the read operations of the dispatch coordinator.
// Query handlers read through the repository ports and return flat response
// structs; they never mutate state and never load full aggregates into
// conversation code.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrListPendingOrdersQueryIsNotConstructed = errors.New(
	"ListPendingOrdersQuery must be created via NewListPendingOrdersQuery constructor",
)

// DefaultPendingOrdersLimit caps the courier's order list to one screen.
const DefaultPendingOrdersLimit = 10

// ListPendingOrdersQuery retrieves unclaimed orders for the courier list,
// oldest first.
type ListPendingOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewListPendingOrdersQuery creates the query. A non-positive limit falls
// back to DefaultPendingOrdersLimit.
func NewListPendingOrdersQuery(limit int) ListPendingOrdersQuery {
	if limit <= 0 {
		limit = DefaultPendingOrdersLimit
	}
	return ListPendingOrdersQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q ListPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListPendingOrdersQueryIsNotConstructed)
}

// Limit returns the maximum number of orders to return.
func (q ListPendingOrdersQuery) Limit() int { return q.limit }

// PendingOrderResponse is one row of the courier's claimable-order list.
// The requester's phone is deliberately absent: couriers see contact details
// only after claiming.
type PendingOrderResponse struct {
	ID        kernel.UUID
	Details   string
	Address   string
	Payment   order.Payment
	CreatedAt time.Time
}
