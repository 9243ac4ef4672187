package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// ListPendingOrdersQueryHandler feeds the courier's claimable-order list.
type ListPendingOrdersQueryHandler struct {
	orders ports.OrderRepository
}

// NewListPendingOrdersQueryHandler creates a handler over the order store.
func NewListPendingOrdersQueryHandler(orders ports.OrderRepository) ListPendingOrdersQueryHandler {
	return ListPendingOrdersQueryHandler{orders: orders}
}

// Handle returns up to the query's limit of pending orders, oldest first.
// The list is a snapshot: any order on it may already be claimed by the time
// the courier presses the button, and the claim itself re-checks.
func (h ListPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListPendingOrdersQuery,
) ([]PendingOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pending, err := h.orders.ListByStatus(ctx, order.Pending, query.Limit())
	if err != nil {
		return nil, err
	}

	result := make([]PendingOrderResponse, 0, len(pending))
	for _, o := range pending {
		result = append(result, PendingOrderResponse{
			ID:        o.ID(),
			Details:   o.Details(),
			Address:   o.Location().Address(),
			Payment:   o.Payment(),
			CreatedAt: o.CreatedAt(),
		})
	}
	return result, nil
}
