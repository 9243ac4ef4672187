package memstore

import (
	"context"
	"sort"
	"sync"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// CourierStore is an in-memory CourierRepository.
type CourierStore struct {
	mu       sync.RWMutex
	couriers map[kernel.ActorID]*courier.Courier
}

// NewCourierStore creates an empty in-memory courier registry.
func NewCourierStore() *CourierStore {
	return &CourierStore{couriers: map[kernel.ActorID]*courier.Courier{}}
}

func cloneCourier(c *courier.Courier) *courier.Courier {
	clone, err := courier.RestoreCourier(c.ID(), c.Name(), c.IsActive(), c.RegisteredAt())
	if err != nil {
		panic(err)
	}
	return clone
}

// Add persists a newly registered courier. Re-registering an existing id is
// a validation error surfaced to the admin.
func (s *CourierStore) Add(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.couriers[aggregate.ID()]; ok {
		return errs.NewValueIsInvalidError("courier is already registered")
	}

	s.couriers[aggregate.ID()] = cloneCourier(aggregate)
	return nil
}

// Update persists changes to an existing courier.
func (s *CourierStore) Update(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.couriers[aggregate.ID()]; !ok {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	s.couriers[aggregate.ID()] = cloneCourier(aggregate)
	return nil
}

// Get retrieves a courier by actor id.
func (s *CourierStore) Get(_ context.Context, id kernel.ActorID) (*courier.Courier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.couriers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}
	return cloneCourier(existing), nil
}

// List retrieves all registered couriers ordered by registration time.
func (s *CourierStore) List(_ context.Context) ([]*courier.Courier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*courier.Courier, 0, len(s.couriers))
	for _, existing := range s.couriers {
		result = append(result, cloneCourier(existing))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RegisteredAt().Before(result[j].RegisteredAt())
	})
	return result, nil
}
