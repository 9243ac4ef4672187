package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// ListCouriersQueryHandler serves the admin courier listing.
type ListCouriersQueryHandler struct {
	couriers ports.CourierRepository
}

// NewListCouriersQueryHandler creates a handler over the courier registry.
func NewListCouriersQueryHandler(couriers ports.CourierRepository) ListCouriersQueryHandler {
	return ListCouriersQueryHandler{couriers: couriers}
}

// Handle returns every registered courier, active or not.
func (h ListCouriersQueryHandler) Handle(
	ctx context.Context,
	query ListCouriersQuery,
) ([]CourierResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	registered, err := h.couriers.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]CourierResponse, 0, len(registered))
	for _, c := range registered {
		result = append(result, CourierResponse{
			ID:           c.ID(),
			Name:         c.Name(),
			Active:       c.IsActive(),
			RegisteredAt: c.RegisteredAt(),
		})
	}
	return result, nil
}
