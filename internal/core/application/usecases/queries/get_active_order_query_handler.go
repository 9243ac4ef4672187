package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// GetActiveOrderQueryHandler serves the customer's order-status view.
type GetActiveOrderQueryHandler struct {
	orders ports.OrderRepository
}

// NewGetActiveOrderQueryHandler creates a handler over the order store.
func NewGetActiveOrderQueryHandler(orders ports.OrderRepository) GetActiveOrderQueryHandler {
	return GetActiveOrderQueryHandler{orders: orders}
}

// Handle returns the requester's active order. Returns errs.ErrObjectNotFound
// when the customer has no order in flight.
func (h GetActiveOrderQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrderQuery,
) (ActiveOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return ActiveOrderResponse{}, err
	}

	active, err := h.orders.GetActiveByRequester(ctx, query.RequesterID())
	if err != nil {
		return ActiveOrderResponse{}, err
	}

	return ActiveOrderResponse{
		ID:        active.ID(),
		Status:    active.Status(),
		Details:   active.Details(),
		Address:   active.Location().Address(),
		Payment:   active.Payment(),
		CourierID: active.Courier(),
		CreatedAt: active.CreatedAt(),
	}, nil
}
