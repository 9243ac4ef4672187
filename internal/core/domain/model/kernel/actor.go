package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ActorID identifies a human on the chat transport (a telegram-style chat id).
// The same ActorID may appear in several role contexts, so it never implies a
// role by itself.
type ActorID int64

// Validate rejects the zero value, which cannot correspond to a real chat.
func (a ActorID) Validate() error {
	if a == 0 {
		return errs.NewValueIsRequiredError("actor id")
	}
	return nil
}

func (a ActorID) String() string {
	return fmt.Sprintf("%d", int64(a))
}

// Role is the conversational context an actor interacts in. One actor holds
// one session per role, and role membership is an explicit assignment record,
// never inferred from a well-known id.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCourier  Role = "courier"
	RoleAdmin    Role = "admin"
)

// Validate checks the role against the known set.
func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleCourier, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidError(fmt.Sprintf("role %q", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}
