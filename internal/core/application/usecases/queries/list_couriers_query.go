package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrListCouriersQueryIsNotConstructed = errors.New(
	"ListCouriersQuery must be created via NewListCouriersQuery constructor",
)

// ListCouriersQuery retrieves the courier registry for admin management.
type ListCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewListCouriersQuery creates the parameterless registry query.
func NewListCouriersQuery() ListCouriersQuery {
	return ListCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ListCouriersQuery) Validate() error {
	return q.guard.Validate(ErrListCouriersQueryIsNotConstructed)
}

// CourierResponse is one row of the admin courier listing. Deactivated
// couriers are included so history stays visible.
type CourierResponse struct {
	ID           kernel.ActorID
	Name         string
	Active       bool
	RegisteredAt time.Time
}
