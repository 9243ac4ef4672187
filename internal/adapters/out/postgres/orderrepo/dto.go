// Package orderrepo persists order aggregates with GORM. The claim and the
// conditional status updates are single UPDATE statements guarded by the
// expected status, so concurrent writers are resolved by the database and
// never by application locks.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database row for an order aggregate. Indexed for the hot
// queries: pending list (status, created_at) and courier assignment lookup
// (courier_id, status). The single-active-order-per-requester rule is a
// partial unique index created in Migrate, since GORM tags cannot express
// partial indexes.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequesterID int64     `gorm:"index"`
	Phone       string
	Lat         float64
	Lon         float64
	Address     string
	Details     string
	Payment     string
	Amount      int64
	Status      int        `gorm:"index:idx_orders_status_created,priority:1"`
	CourierID   *int64     `gorm:"index:idx_orders_courier_status,priority:1"`
	Reason      string
	CreatedAt   time.Time  `gorm:"index:idx_orders_status_created,priority:2"`
	AcceptedAt  *time.Time
	DeliveredAt *time.Time
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *int64
	if c := aggregate.Courier(); c != nil {
		raw := int64(*c)
		courierID = &raw
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		RequesterID: int64(aggregate.RequesterID()),
		Phone:       aggregate.Phone().String(),
		Lat:         aggregate.Location().Lat(),
		Lon:         aggregate.Location().Lon(),
		Address:     aggregate.Location().Address(),
		Details:     aggregate.Details(),
		Payment:     aggregate.Payment().String(),
		Amount:      aggregate.Amount(),
		Status:      int(aggregate.Status()),
		CourierID:   courierID,
		Reason:      aggregate.Reason(),
		CreatedAt:   aggregate.CreatedAt(),
		AcceptedAt:  aggregate.AcceptedAt(),
		DeliveredAt: aggregate.DeliveredAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	phone := kernel.Phone(dto.Phone)
	location, err := kernel.NewLocation(dto.Lat, dto.Lon, dto.Address)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.ActorID
	if dto.CourierID != nil {
		cID := kernel.ActorID(*dto.CourierID)
		courierID = &cID
	}

	return order.RestoreOrder(
		id,
		kernel.ActorID(dto.RequesterID),
		phone,
		location,
		dto.Details,
		order.Payment(dto.Payment),
		dto.Amount,
		order.Status(dto.Status),
		courierID,
		dto.Reason,
		dto.CreatedAt,
		dto.AcceptedAt,
		dto.DeliveredAt,
	)
}
