// Package courierrepo persists the courier registry with GORM. The table
// also carries the role assignments, since both belong to the same
// administrative aggregate boundary.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDTO is the database row for a registered courier. The primary key
// is the actor id of the chat transport, not a synthetic uuid: a courier is
// an actor granted delivery duty, never a separate identity.
type CourierDTO struct {
	ID           int64 `gorm:"primaryKey;autoIncrement:false"`
	Name         string
	Active       bool
	RegisteredAt time.Time
}

// TableName overrides GORM's default naming to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

// RoleDTO is one explicit role assignment. Membership is a lookup over this
// table; no actor id is special.
type RoleDTO struct {
	ActorID int64  `gorm:"primaryKey;autoIncrement:false"`
	Role    string `gorm:"primaryKey"`
}

// TableName overrides GORM's default naming to use "actor_roles".
func (RoleDTO) TableName() string {
	return "actor_roles"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:           int64(aggregate.ID()),
		Name:         aggregate.Name(),
		Active:       aggregate.IsActive(),
		RegisteredAt: aggregate.RegisteredAt(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	return courier.RestoreCourier(kernel.ActorID(dto.ID), dto.Name, dto.Active, dto.RegisteredAt)
}
