package memstore

import (
	"context"

	"dispatch/internal/core/ports"
)

// UnitOfWork adapts the in-memory stores to the unit-of-work contract used
// by command handlers. Each store is individually atomic under its own
// mutex, so Begin/Commit/Rollback are no-ops; handlers drive the same code
// path they use against postgres.
type UnitOfWork struct {
	Orders   *OrderStore
	Couriers *CourierStore
	Roles    *RoleStore
}

// NewUnitOfWork bundles fresh stores into a shared unit of work.
func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		Orders:   NewOrderStore(),
		Couriers: NewCourierStore(),
		Roles:    NewRoleStore(),
	}
}

// Begin is a no-op: memory stores commit on write.
func (u *UnitOfWork) Begin(context.Context) error { return nil }

// Commit is a no-op: memory stores commit on write.
func (u *UnitOfWork) Commit(context.Context) error { return nil }

// Rollback is a no-op: memory stores commit on write.
func (u *UnitOfWork) Rollback(context.Context) error { return nil }

// OrderRepository returns the shared order store.
func (u *UnitOfWork) OrderRepository() ports.OrderRepository { return u.Orders }

// CourierRepository returns the shared courier registry.
func (u *UnitOfWork) CourierRepository() ports.CourierRepository { return u.Couriers }

// RoleRepository returns the shared role table.
func (u *UnitOfWork) RoleRepository() ports.RoleRepository { return u.Roles }

// Create implements the unit-of-work factory over the same shared stores.
func (u *UnitOfWork) Create() *UnitOfWork { return u }
