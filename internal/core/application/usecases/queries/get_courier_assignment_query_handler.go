package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// GetCourierAssignmentQueryHandler serves the courier's current-job view.
type GetCourierAssignmentQueryHandler struct {
	orders ports.OrderRepository
}

// NewGetCourierAssignmentQueryHandler creates a handler over the order store.
func NewGetCourierAssignmentQueryHandler(orders ports.OrderRepository) GetCourierAssignmentQueryHandler {
	return GetCourierAssignmentQueryHandler{orders: orders}
}

// Handle returns the courier's active assignment. Returns
// errs.ErrObjectNotFound when the courier carries nothing.
func (h GetCourierAssignmentQueryHandler) Handle(
	ctx context.Context,
	query GetCourierAssignmentQuery,
) (CourierAssignmentResponse, error) {
	if err := query.Validate(); err != nil {
		return CourierAssignmentResponse{}, err
	}

	assigned, err := h.orders.GetActiveByCourier(ctx, query.CourierID())
	if err != nil {
		return CourierAssignmentResponse{}, err
	}

	return CourierAssignmentResponse{
		ID:      assigned.ID(),
		Status:  assigned.Status(),
		Details: assigned.Details(),
		Phone:   assigned.Phone(),
		Lat:     assigned.Location().Lat(),
		Lon:     assigned.Location().Lon(),
		Address: assigned.Location().Address(),
		Payment: assigned.Payment(),
	}, nil
}
