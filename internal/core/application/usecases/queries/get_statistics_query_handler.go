package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// GetStatisticsQueryHandler serves the admin statistics view.
type GetStatisticsQueryHandler struct {
	orders ports.OrderRepository
}

// NewGetStatisticsQueryHandler creates a handler over the order store.
func NewGetStatisticsQueryHandler(orders ports.OrderRepository) GetStatisticsQueryHandler {
	return GetStatisticsQueryHandler{orders: orders}
}

// Handle returns order counts per lifecycle status.
func (h GetStatisticsQueryHandler) Handle(
	ctx context.Context,
	query GetStatisticsQuery,
) (StatisticsResponse, error) {
	if err := query.Validate(); err != nil {
		return StatisticsResponse{}, err
	}

	counts, err := h.orders.CountByStatus(ctx)
	if err != nil {
		return StatisticsResponse{}, err
	}

	resp := StatisticsResponse{
		Pending:    counts[order.Pending],
		Accepted:   counts[order.Accepted],
		Delivering: counts[order.Delivering],
		Delivered:  counts[order.Delivered],
		Cancelled:  counts[order.Cancelled],
		Rejected:   counts[order.Rejected],
	}
	resp.Total = resp.Pending + resp.Accepted + resp.Delivering +
		resp.Delivered + resp.Cancelled + resp.Rejected

	delivered, err := h.orders.ListByStatus(ctx, order.Delivered, 0)
	if err != nil {
		return StatisticsResponse{}, err
	}
	for _, o := range delivered {
		resp.DeliveredAmount += o.Amount()
	}

	return resp, nil
}
