package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
)

// SessionRepository persists conversation sessions keyed by (actor, role).
// TTL semantics (lazy recreation on expired reads, sliding expiry on writes)
// live in the sessions.Store service; the repository only stores records.
type SessionRepository interface {
	// Find retrieves the session for (actor, role), expired or not.
	// Returns errs.ObjectNotFound when no record exists.
	Find(ctx context.Context, actorID kernel.ActorID, role kernel.Role) (*session.Session, error)

	// Save upserts the session record.
	Save(ctx context.Context, aggregate *session.Session) error

	// Delete removes the session for (actor, role). Idempotent.
	Delete(ctx context.Context, actorID kernel.ActorID, role kernel.Role) error

	// DeleteExpired removes every session whose expiry has passed and
	// returns the number of removed records. Runs from the periodic sweep,
	// independent of lazy expiry on read.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
