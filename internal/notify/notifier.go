// Package notify fans order lifecycle events out to the actors who care
// about them. Delivery is best-effort: the order transition has already
// committed by the time Notify runs, so a failed send is retried a few times
// and then logged and dropped, never propagated back.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

const (
	maxAttempts    = 3
	defaultBackoff = 2 * time.Second
)

// Senders holds the per-role outbound connections. An actor only has a chat
// with the bot of the role they act in, so each audience member must be
// reached through the right connection.
type Senders struct {
	Customer ports.Sender
	Courier  ports.Sender
	Admin    ports.Sender
}

// delivery is one audience member together with the connection that can
// reach them.
type delivery struct {
	to  kernel.ActorID
	via ports.Sender
}

// Notifier implements ports.Notifier over the per-role senders. The audience
// of an event depends only on its kind.
type Notifier struct {
	senders   Senders
	adminChat kernel.ActorID
	log       *slog.Logger
	backoff   time.Duration

	wg sync.WaitGroup
}

// NewNotifier creates a notifier. adminChat is the channel that receives
// new-order announcements and delivery confirmations.
func NewNotifier(senders Senders, adminChat kernel.ActorID, log *slog.Logger) *Notifier {
	return &Notifier{
		senders:   senders,
		adminChat: adminChat,
		log:       log.With("component", "notifier"),
		backoff:   defaultBackoff,
	}
}

// WithBackoff overrides the retry backoff. Used by tests.
func (n *Notifier) WithBackoff(backoff time.Duration) *Notifier {
	n.backoff = backoff
	return n
}

// Notify dispatches the event to its audience asynchronously. It never
// blocks on network sends and never returns an error to the caller.
func (n *Notifier) Notify(ctx context.Context, event ports.OrderEvent) {
	for _, d := range n.audience(event) {
		n.wg.Add(1)
		// The transition is already committed; the send must not die with
		// the inbound request context.
		go n.deliver(context.WithoutCancel(ctx), d, render(event))
	}
}

// Wait blocks until all in-flight deliveries finish. Called on shutdown.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) audience(event ports.OrderEvent) []delivery {
	requester := delivery{to: event.Order.RequesterID(), via: n.senders.Customer}
	admin := delivery{to: n.adminChat, via: n.senders.Admin}

	switch event.Kind {
	case ports.EventOrderCreated:
		return []delivery{admin}
	case ports.EventOrderClaimed, ports.EventOrderDelivering, ports.EventOrderRejected:
		return []delivery{requester}
	case ports.EventOrderDelivered:
		return []delivery{requester, admin}
	case ports.EventOrderCancelled:
		if event.Courier != nil {
			return []delivery{requester, {to: *event.Courier, via: n.senders.Courier}}
		}
		return []delivery{requester}
	default:
		n.log.Warn("unknown event kind", "kind", event.Kind)
		return nil
	}
}

func (n *Notifier) deliver(ctx context.Context, d delivery, text string) {
	defer n.wg.Done()

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = d.via.Send(ctx, d.to, text, nil); err == nil {
			return
		}
		if attempt < maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * n.backoff):
			case <-ctx.Done():
				n.log.Warn("notification abandoned",
					"recipient", d.to, "error", ctx.Err())
				return
			}
		}
	}

	n.log.Error("notification dropped after retries",
		"recipient", d.to, "attempts", maxAttempts, "error", err)
}

func render(event ports.OrderEvent) string {
	o := event.Order

	switch event.Kind {
	case ports.EventOrderCreated:
		return fmt.Sprintf(
			"New order %s\n%s\n%s\nPayment: %s",
			shortID(o.ID()), o.Details(), o.Location().Address(), o.Payment(),
		)
	case ports.EventOrderClaimed:
		return fmt.Sprintf("Your order %s was accepted by a courier.", shortID(o.ID()))
	case ports.EventOrderDelivering:
		return fmt.Sprintf("Your order %s is on its way.", shortID(o.ID()))
	case ports.EventOrderDelivered:
		return fmt.Sprintf("Order %s delivered.", shortID(o.ID()))
	case ports.EventOrderCancelled:
		if reason := o.Reason(); reason != "" {
			return fmt.Sprintf("Order %s was cancelled: %s", shortID(o.ID()), reason)
		}
		return fmt.Sprintf("Order %s was cancelled.", shortID(o.ID()))
	case ports.EventOrderRejected:
		return fmt.Sprintf("Order %s was declined: %s", shortID(o.ID()), o.Reason())
	default:
		return fmt.Sprintf("Order %s: %s", shortID(o.ID()), o.Status())
	}
}

// shortID renders the first uuid group, enough for humans to match messages
// to orders.
func shortID(id kernel.UUID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

var _ ports.Notifier = (*Notifier)(nil)
