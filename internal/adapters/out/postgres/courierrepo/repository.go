package courierrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository implements CourierRepository using GORM.
// Couriers are keyed by actor id rather than a uuid, so they stay outside
// the unit of work's aggregate tracking.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a newly registered courier.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves changes to an existing courier.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":   dto.Name,
			"active": dto.Active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a courier by actor id.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.ActorID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List retrieves all registered couriers, including deactivated ones.
func (r *GormCourierRepository) List(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).Order("registered_at ASC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}

// GormRoleRepository implements RoleRepository using GORM.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GORM role repository.
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Grant assigns a role to an actor. ON CONFLICT DO NOTHING keeps it
// idempotent without a read-before-write.
func (r *GormRoleRepository) Grant(ctx context.Context, actorID kernel.ActorID, role kernel.Role) error {
	if err := errors.Join(actorID.Validate(), role.Validate()); err != nil {
		return err
	}

	dto := RoleDTO{ActorID: int64(actorID), Role: role.String()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
}

// Revoke removes a role assignment. Idempotent.
func (r *GormRoleRepository) Revoke(ctx context.Context, actorID kernel.ActorID, role kernel.Role) error {
	if err := errors.Join(actorID.Validate(), role.Validate()); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Delete(&RoleDTO{}, "actor_id = ? AND role = ?", int64(actorID), role.String()).Error
}

// Has reports whether the actor holds the role.
func (r *GormRoleRepository) Has(ctx context.Context, actorID kernel.ActorID, role kernel.Role) (bool, error) {
	if err := errors.Join(actorID.Validate(), role.Validate()); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&RoleDTO{}).
		Where("actor_id = ? AND role = ?", int64(actorID), role.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
