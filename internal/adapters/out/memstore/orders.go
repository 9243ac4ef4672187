package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// OrderStore is an in-memory OrderRepository. A single mutex plays the part
// of the database's conditional writes: claim and conditional updates are
// check-and-set under the lock, so the concurrency contract is identical to
// the postgres implementation.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*order.Order
}

// NewOrderStore creates an empty in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: map[uuid.UUID]*order.Order{}}
}

func cloneOrder(o *order.Order) *order.Order {
	var courierID *kernel.ActorID
	if c := o.Courier(); c != nil {
		v := *c
		courierID = &v
	}
	var acceptedAt, deliveredAt *time.Time
	if t := o.AcceptedAt(); t != nil {
		v := *t
		acceptedAt = &v
	}
	if t := o.DeliveredAt(); t != nil {
		v := *t
		deliveredAt = &v
	}

	clone, err := order.RestoreOrder(
		o.ID(), o.RequesterID(), o.Phone(), o.Location(), o.Details(),
		o.Payment(), o.Amount(), o.Status(), courierID, o.Reason(),
		o.CreatedAt(), acceptedAt, deliveredAt,
	)
	if err != nil {
		// A stored aggregate is valid by construction.
		panic(err)
	}
	return clone
}

// Add persists a new order, enforcing the single-active-order rule under the
// same lock as the insert so check and insert are one operation.
func (s *OrderStore) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orders {
		if existing.RequesterID() == aggregate.RequesterID() && existing.Status().IsActive() {
			return order.ErrActiveOrderExists
		}
	}

	s.orders[aggregate.ID().Bytes()] = cloneOrder(aggregate)
	return nil
}

// Get retrieves an order by id.
func (s *OrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.orders[id.Bytes()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return cloneOrder(existing), nil
}

// GetActiveByRequester retrieves the requester's non-terminal order, if any.
func (s *OrderStore) GetActiveByRequester(_ context.Context, requesterID kernel.ActorID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.orders {
		if existing.RequesterID() == requesterID && existing.Status().IsActive() {
			return cloneOrder(existing), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("active order for requester", requesterID.String())
}

// GetActiveByCourier retrieves the courier's current assignment, if any.
func (s *OrderStore) GetActiveByCourier(_ context.Context, courierID kernel.ActorID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.orders {
		c := existing.Courier()
		if c != nil && *c == courierID &&
			(existing.Status() == order.Accepted || existing.Status() == order.Delivering) {
			return cloneOrder(existing), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("active order for courier", courierID.String())
}

// ListByStatus retrieves up to limit orders in the status, oldest first.
func (s *OrderStore) ListByStatus(_ context.Context, status order.Status, limit int) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*order.Order
	for _, existing := range s.orders {
		if existing.Status() == status {
			result = append(result, cloneOrder(existing))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt().Before(result[j].CreatedAt())
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ClaimPending atomically claims a pending order for the courier.
// First writer under the lock wins; everyone else gets ErrNotAvailable.
func (s *OrderStore) ClaimPending(_ context.Context, id kernel.UUID, courierID kernel.ActorID, at time.Time) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orders[id.Bytes()]
	if !ok {
		return nil, order.ErrNotAvailable
	}

	if err := existing.Accept(courierID, at); err != nil {
		return nil, err
	}
	return cloneOrder(existing), nil
}

// UpdateWhereStatus writes the aggregate only if the stored status still
// matches expected.
func (s *OrderStore) UpdateWhereStatus(_ context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orders[aggregate.ID().Bytes()]
	if !ok || existing.Status() != expected {
		return order.ErrNotAvailable
	}

	s.orders[aggregate.ID().Bytes()] = cloneOrder(aggregate)
	return nil
}

// CountByStatus returns order counts per status.
func (s *OrderStore) CountByStatus(_ context.Context) (map[order.Status]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[order.Status]int64{}
	for _, existing := range s.orders {
		counts[existing.Status()]++
	}
	return counts, nil
}

// ListPendingOlderThan retrieves pending orders created before the cutoff.
func (s *OrderStore) ListPendingOlderThan(_ context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*order.Order
	for _, existing := range s.orders {
		if existing.Status() == order.Pending && existing.CreatedAt().Before(cutoff) {
			result = append(result, cloneOrder(existing))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt().Before(result[j].CreatedAt())
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
