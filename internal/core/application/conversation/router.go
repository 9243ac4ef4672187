package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/sessions"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/ratelimit"
)

// Shared user-facing prompts for the cross-role error taxonomy. Conflict
// outcomes get specific messages because the recovery action differs; only
// store failures collapse into the generic retry prompt.
const (
	promptActiveOrderExists = "You already have an order in progress. Finish or cancel it before placing a new one."
	promptNotAvailable      = "This order is no longer available. Please pick another one."
	promptOwnership         = "This order is assigned to another courier. If that seems wrong, contact support."
	promptAlreadyTerminal   = "This order is already finished, nothing to change."
	promptInvalidInput      = "That doesn't look right, please try again."
	promptTryAgain          = "Something went wrong, please try again."
	promptAdminOnly         = "This bot is for dispatch staff only."
)

// Router is the single entry point for inbound events. It gates on the rate
// limiter and, for admin events, on role-table membership before any session
// mutation, loads the session, runs the role's driver and persists the
// session only on success.
type Router struct {
	sessions *sessions.Store
	limiter  *ratelimit.Limiter
	roles    ports.RoleRepository
	drivers  map[kernel.Role]Driver
	log      *slog.Logger
}

// NewRouter assembles a router over the given drivers.
func NewRouter(store *sessions.Store, limiter *ratelimit.Limiter, roles ports.RoleRepository, log *slog.Logger, drivers ...Driver) *Router {
	byRole := make(map[kernel.Role]Driver, len(drivers))
	for _, d := range drivers {
		byRole[d.Role()] = d
	}
	return &Router{
		sessions: store,
		limiter:  limiter,
		roles:    roles,
		drivers:  byRole,
		log:      log.With("component", "router"),
	}
}

// Dispatch handles one inbound event for the given role context and returns
// the replies to send. It never returns an error: every failure maps to a
// user-facing prompt, and the session is left untouched on failed turns.
func (r *Router) Dispatch(ctx context.Context, role kernel.Role, event Event) []Reply {
	if decision := r.limiter.Allow(event.ActorID); !decision.OK {
		return []Reply{{Text: fmt.Sprintf(
			"Too many requests. Try again in %d seconds.",
			int(decision.RetryAfter.Seconds()),
		)}}
	}

	if role == kernel.RoleAdmin {
		// Admin access is a pure lookup over the role table. Customer and
		// courier events carry no privilege; couriers are checked against
		// the registry inside the claim handler.
		member, err := r.roles.Has(ctx, event.ActorID, kernel.RoleAdmin)
		if err != nil {
			r.log.Error("role lookup failed", "actor", event.ActorID, "error", err)
			return []Reply{{Text: promptTryAgain}}
		}
		if !member {
			r.log.Warn("admin event from non-member", "actor", event.ActorID)
			return []Reply{{Text: promptAdminOnly}}
		}
	}

	driver, ok := r.drivers[role]
	if !ok {
		r.log.Error("no driver for role", "role", role)
		return []Reply{{Text: promptTryAgain}}
	}

	sess, err := r.sessions.Get(ctx, event.ActorID, role)
	if err != nil {
		r.log.Error("session load failed", "actor", event.ActorID, "role", role, "error", err)
		return []Reply{{Text: promptTryAgain}}
	}

	replies, err := driver.Handle(ctx, sess, event)
	if err != nil {
		return []Reply{{Text: promptFor(err)}}
	}

	if err := r.sessions.Set(ctx, sess); err != nil {
		r.log.Error("session save failed", "actor", event.ActorID, "role", role, "error", err)
		return []Reply{{Text: promptTryAgain}}
	}

	return replies
}

func promptFor(err error) string {
	switch {
	case errors.Is(err, order.ErrActiveOrderExists):
		return promptActiveOrderExists
	case errors.Is(err, order.ErrNotAvailable):
		return promptNotAvailable
	case errors.Is(err, order.ErrOwnershipMismatch):
		return promptOwnership
	case errors.Is(err, order.ErrAlreadyTerminal):
		return promptAlreadyTerminal
	case errors.Is(err, order.ErrInvalidTransition):
		return promptNotAvailable
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return promptInvalidInput
	case errors.Is(err, errs.ErrObjectNotFound):
		return promptNotAvailable
	default:
		return promptTryAgain
	}
}
