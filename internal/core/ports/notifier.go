package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// EventKind names an order state change for notification fan-out.
// Audience resolution is purely a function of the kind.
type EventKind string

const (
	EventOrderCreated    EventKind = "order_created"
	EventOrderClaimed    EventKind = "order_claimed"
	EventOrderDelivering EventKind = "order_delivering"
	EventOrderDelivered  EventKind = "order_delivered"
	EventOrderCancelled  EventKind = "order_cancelled"
	EventOrderRejected   EventKind = "order_rejected"
)

// OrderEvent is an immutable snapshot of an order state change.
type OrderEvent struct {
	Kind  EventKind
	Order *order.Order

	// Courier is the assignment at the moment of the event. Carried
	// separately because cancellation clears the assignment on the record
	// while the previously assigned courier still has to be told.
	Courier *kernel.ActorID
}

// Notifier fans an order state change out to the affected actors.
// Delivery is best-effort and decoupled from the transition that produced
// the event: implementations must never block or fail the caller.
type Notifier interface {
	Notify(ctx context.Context, event OrderEvent)
}
