package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrGetActiveOrderQueryIsNotConstructed = errors.New(
	"GetActiveOrderQuery must be created via NewGetActiveOrderQuery constructor",
)

// GetActiveOrderQuery retrieves a customer's current non-terminal order for
// the status screen.
type GetActiveOrderQuery struct {
	requesterID kernel.ActorID

	guard guard.ConstructorGuard
}

// NewGetActiveOrderQuery validates and assembles the query.
func NewGetActiveOrderQuery(requesterID kernel.ActorID) (GetActiveOrderQuery, error) {
	if err := requesterID.Validate(); err != nil {
		return GetActiveOrderQuery{}, err
	}
	return GetActiveOrderQuery{
		requesterID: requesterID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrderQueryIsNotConstructed)
}

// RequesterID returns the customer whose order is looked up.
func (q GetActiveOrderQuery) RequesterID() kernel.ActorID { return q.requesterID }

// ActiveOrderResponse is the customer-facing view of their current order.
type ActiveOrderResponse struct {
	ID        kernel.UUID
	Status    order.Status
	Details   string
	Address   string
	Payment   order.Payment
	CourierID *kernel.ActorID
	CreatedAt time.Time
}
