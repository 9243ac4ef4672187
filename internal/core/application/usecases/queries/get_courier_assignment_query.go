package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierAssignmentQueryIsNotConstructed = errors.New(
	"GetCourierAssignmentQuery must be created via NewGetCourierAssignmentQuery constructor",
)

// GetCourierAssignmentQuery retrieves the order a courier is currently
// carrying.
type GetCourierAssignmentQuery struct {
	courierID kernel.ActorID

	guard guard.ConstructorGuard
}

// NewGetCourierAssignmentQuery validates and assembles the query.
func NewGetCourierAssignmentQuery(courierID kernel.ActorID) (GetCourierAssignmentQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierAssignmentQuery{}, err
	}
	return GetCourierAssignmentQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierAssignmentQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierAssignmentQueryIsNotConstructed)
}

// CourierID returns the courier whose assignment is looked up.
func (q GetCourierAssignmentQuery) CourierID() kernel.ActorID { return q.courierID }

// CourierAssignmentResponse is the courier-facing view of their current job.
// Unlike the pending list it includes the requester's contact phone and exact
// coordinates.
type CourierAssignmentResponse struct {
	ID      kernel.UUID
	Status  order.Status
	Details string
	Phone   kernel.Phone
	Lat     float64
	Lon     float64
	Address string
	Payment order.Payment
}
