package orderrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the postgres error code raised when the partial unique
// index on active orders rejects a second insert for the same requester.
const uniqueViolation = "23505"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order. The partial unique index on (requester_id) for
// active statuses closes the create race: when two inserts for the same
// requester slip past the application-level check, the second one fails
// here and surfaces as ErrActiveOrderExists.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return order.ErrActiveOrderExists
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByRequester retrieves the requester's non-terminal order, if any.
func (r *GormOrderRepository) GetActiveByRequester(ctx context.Context, requesterID kernel.ActorID) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "requester_id = ? AND status IN ?", int64(requesterID), activeStatuses()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active order for requester", requesterID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByCourier retrieves the order currently assigned to the courier.
func (r *GormOrderRepository) GetActiveByCourier(ctx context.Context, courierID kernel.ActorID) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "courier_id = ? AND status IN ?", int64(courierID),
			[]int{int(order.Accepted), int(order.Delivering)}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active order for courier", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByStatus retrieves up to limit orders in the status, oldest first.
func (r *GormOrderRepository) ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ?", int(status)).
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var dtos []OrderDTO
	if err := tx.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// ClaimPending performs the atomic claim as a single conditional UPDATE.
// The status guard in the WHERE clause makes exactly one of N concurrent
// claimers win; everyone else matches zero rows and gets ErrNotAvailable.
func (r *GormOrderRepository) ClaimPending(ctx context.Context, id kernel.UUID, courierID kernel.ActorID, at time.Time) (*order.Order, error) {
	if err := errors.Join(id.Validate(), courierID.Validate()); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), int(order.Pending)).
		Updates(map[string]any{
			"status":      int(order.Accepted),
			"courier_id":  int64(courierID),
			"accepted_at": at,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, order.ErrNotAvailable
	}

	claimed, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(claimed.ID(), claimed)
	return claimed, nil
}

// UpdateWhereStatus writes the aggregate conditionally on the stored status
// still being expected. A concurrent change matches zero rows and surfaces
// as ErrNotAvailable instead of a lost update.
func (r *GormOrderRepository) UpdateWhereStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(expected)).
		Updates(map[string]any{
			"status":       dto.Status,
			"courier_id":   dto.CourierID,
			"reason":       dto.Reason,
			"amount":       dto.Amount,
			"accepted_at":  dto.AcceptedAt,
			"delivered_at": dto.DeliveredAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.ErrNotAvailable
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// CountByStatus returns order counts per status.
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	var rows []struct {
		Status int
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[order.Status]int64, len(rows))
	for _, row := range rows {
		counts[order.Status(row.Status)] = row.Count
	}
	return counts, nil
}

// ListPendingOlderThan retrieves pending orders created before the cutoff.
func (r *GormOrderRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", int(order.Pending), cutoff).
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var dtos []OrderDTO
	if err := tx.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func activeStatuses() []int {
	return []int{int(order.Pending), int(order.Accepted), int(order.Delivering)}
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
