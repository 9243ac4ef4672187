// Package commands contains the write operations of the dispatch
// coordinator. All order mutations flow through these handlers; conversation
// drivers and the admin surface never write the stores directly.
// Every command follows the same pattern: validated construction, transaction
// management through a unit of work, and a post-commit notification event.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository bound to the
	// current transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides the courier registry bound to the
	// current transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// RoleRepoFactory provides the role table bound to the current
	// transaction.
	RoleRepoFactory interface {
		RoleRepository() ports.RoleRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across orders, couriers and roles.
	UoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		RoleRepoFactory
	}

	// UoWFactory creates unit of work instances for cross-aggregate
	// operations.
	UoWFactory interface {
		Create() UoW
	}
)

// OrderUoWFactoryFunc adapts a function to OrderUoWFactory.
type OrderUoWFactoryFunc func() OrderUoW

// Create invokes the function.
func (f OrderUoWFactoryFunc) Create() OrderUoW { return f() }

// UoWFactoryFunc adapts a function to UoWFactory.
type UoWFactoryFunc func() UoW

// Create invokes the function.
func (f UoWFactoryFunc) Create() UoW { return f() }
