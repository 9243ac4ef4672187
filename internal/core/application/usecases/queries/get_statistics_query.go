package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrGetStatisticsQueryIsNotConstructed = errors.New(
	"GetStatisticsQuery must be created via NewGetStatisticsQuery constructor",
)

// GetStatisticsQuery retrieves order counts for the admin statistics view.
type GetStatisticsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetStatisticsQuery creates the parameterless statistics query.
func NewGetStatisticsQuery() GetStatisticsQuery {
	return GetStatisticsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatisticsQueryIsNotConstructed)
}

// StatisticsResponse is the per-status order breakdown plus the delivered
// revenue total in the smallest currency unit.
type StatisticsResponse struct {
	Pending         int64
	Accepted        int64
	Delivering      int64
	Delivered       int64
	Cancelled       int64
	Rejected        int64
	Total           int64
	DeliveredAmount int64
}
