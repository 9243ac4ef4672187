package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository persists the courier registry.
type CourierRepository interface {
	// Add persists a newly registered courier.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier by actor id.
	Get(ctx context.Context, id kernel.ActorID) (*courier.Courier, error)

	// List retrieves all registered couriers, including deactivated ones.
	List(ctx context.Context) ([]*courier.Courier, error)
}

// RoleRepository is the explicit role-assignment record. Role membership is a
// pure lookup over this table; promotion is an explicit administrative
// action, never a side effect of an identity comparison.
type RoleRepository interface {
	// Grant assigns a role to an actor. Idempotent.
	Grant(ctx context.Context, actorID kernel.ActorID, role kernel.Role) error

	// Revoke removes a role assignment. Idempotent.
	Revoke(ctx context.Context, actorID kernel.ActorID, role kernel.Role) error

	// Has reports whether the actor holds the role.
	Has(ctx context.Context, actorID kernel.ActorID, role kernel.Role) (bool, error)
}
