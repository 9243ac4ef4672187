// Package conversation contains the role state machines that turn inbound
// chat events into coordinator calls and outbound replies. Drivers own
// session state; the authoritative order state always lives on the Order and
// is only ever changed through command handlers.
package conversation

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
)

// Contact is a shared-contact payload.
type Contact struct {
	Phone string
}

// Point is a geographic payload, inbound or outbound.
type Point struct {
	Lat float64
	Lon float64
}

// Event is one inbound chat interaction, already stripped of transport
// details. Exactly one of Text, Contact, Location and Callback carries the
// payload; Text may accompany a location as a human-readable address.
type Event struct {
	ActorID  kernel.ActorID
	Text     string
	Callback string
	Contact  *Contact
	Location *Point
}

// IsCallback reports whether the event is a button press with a code.
func (e Event) IsCallback() bool { return e.Callback != "" }

// Reply is one outbound message.
type Reply struct {
	Text     string
	Keyboard ports.Keyboard
	Location *Point
}

// Driver is one role's conversation state machine.
//
// Handle may mutate the session; the router persists it only when Handle
// returns without error, so a failed coordinator call leaves the session in
// its pre-transition state and the collected accumulator intact. Expected
// flow-level outcomes (a lost claim race, invalid input) are handled inside
// the driver; only errors the shared taxonomy maps are returned.
type Driver interface {
	Role() kernel.Role
	Handle(ctx context.Context, sess *session.Session, event Event) ([]Reply, error)
}
