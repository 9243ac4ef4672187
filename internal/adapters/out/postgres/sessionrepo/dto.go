// Package sessionrepo persists conversation sessions with GORM, keyed by
// the (actor, role) pair. TTL semantics live in the sessions store service;
// this package only stores records.
package sessionrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
)

// SessionDTO is the database row for one actor's conversation state in one
// role context. The accumulator is a jsonb column handled by GORM's json
// serializer.
type SessionDTO struct {
	ActorID   int64             `gorm:"primaryKey;autoIncrement:false"`
	Role      string            `gorm:"primaryKey"`
	State     string
	Data      map[string]string `gorm:"serializer:json;type:jsonb"`
	ExpiresAt time.Time         `gorm:"index"`
}

// TableName overrides GORM's default naming to use "sessions".
func (SessionDTO) TableName() string {
	return "sessions"
}

func fromDomain(aggregate *session.Session) SessionDTO {
	return SessionDTO{
		ActorID:   int64(aggregate.ActorID()),
		Role:      aggregate.Role().String(),
		State:     aggregate.State().String(),
		Data:      aggregate.Data(),
		ExpiresAt: aggregate.ExpiresAt(),
	}
}

func toDomain(dto SessionDTO) (*session.Session, error) {
	return session.RestoreSession(
		kernel.ActorID(dto.ActorID),
		kernel.Role(dto.Role),
		session.State(dto.State),
		dto.Data,
		dto.ExpiresAt,
	)
}
