package sessionrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSessionRepository implements SessionRepository using GORM.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GORM session repository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Find retrieves the stored session, expired or not.
func (r *GormSessionRepository) Find(ctx context.Context, actorID kernel.ActorID, role kernel.Role) (*session.Session, error) {
	if err := errors.Join(actorID.Validate(), role.Validate()); err != nil {
		return nil, err
	}

	var dto SessionDTO
	err := r.db.WithContext(ctx).
		First(&dto, "actor_id = ? AND role = ?", int64(actorID), role.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session", actorID.String()+"/"+role.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save upserts the session record on the composite (actor, role) key.
func (r *GormSessionRepository) Save(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}, {Name: "role"}},
			UpdateAll: true,
		}).
		Create(&dto).Error
}

// Delete removes the session record. Idempotent.
func (r *GormSessionRepository) Delete(ctx context.Context, actorID kernel.ActorID, role kernel.Role) error {
	if err := errors.Join(actorID.Validate(), role.Validate()); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Delete(&SessionDTO{}, "actor_id = ? AND role = ?", int64(actorID), role.String()).Error
}

// DeleteExpired removes every session past its expiry and returns the count.
func (r *GormSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&SessionDTO{}, "expires_at <= ?", now)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
