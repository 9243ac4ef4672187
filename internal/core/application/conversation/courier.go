package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
)

// Courier menu labels and callback codes.
const (
	courierOrders     = "Orders"
	courierMyDelivery = "My delivery"
	courierBack       = "Back"

	cbClaimPrefix = "claim:"
	cbRefresh     = "orders:refresh"
	cbDelivering  = "advance:delivering"
	cbDelivered   = "advance:delivered"
)

// CourierDriver serves the claim-and-deliver loop. Courier session state is a
// view filter; every order mutation goes through the coordinator's
// conditional writes, so two couriers pressing the same claim button is safe
// regardless of session state.
type CourierDriver struct {
	claim      *commands.ClaimOrderCommandHandler
	advance    *commands.AdvanceOrderCommandHandler
	pending    queries.ListPendingOrdersQueryHandler
	assignment queries.GetCourierAssignmentQueryHandler
}

// NewCourierDriver creates the courier state machine.
func NewCourierDriver(
	claim *commands.ClaimOrderCommandHandler,
	advance *commands.AdvanceOrderCommandHandler,
	pending queries.ListPendingOrdersQueryHandler,
	assignment queries.GetCourierAssignmentQueryHandler,
) *CourierDriver {
	return &CourierDriver{
		claim:      claim,
		advance:    advance,
		pending:    pending,
		assignment: assignment,
	}
}

// Role implements Driver.
func (d *CourierDriver) Role() kernel.Role { return kernel.RoleCourier }

// Handle implements Driver.
func (d *CourierDriver) Handle(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch sess.State() {
	case session.StateMainMenu:
		return d.handleMainMenu(ctx, sess, event)
	case session.StateViewingOrders:
		return d.handleViewingOrders(ctx, sess, event)
	case session.StateOrderAccepted:
		return d.handleOrderAccepted(ctx, sess, event)
	default:
		sess.Reset()
		return d.menu("Let's start over."), nil
	}
}

func (d *CourierDriver) handleMainMenu(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch event.Text {
	case courierOrders:
		if err := sess.MoveTo(session.StateViewingOrders); err != nil {
			return nil, err
		}
		return d.listReplies(ctx)

	case courierMyDelivery:
		return d.assignmentReplies(ctx, sess)

	default:
		return d.menu("Ready to deliver?"), nil
	}
}

func (d *CourierDriver) handleViewingOrders(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch {
	case strings.HasPrefix(event.Callback, cbClaimPrefix):
		return d.handleClaim(ctx, sess, strings.TrimPrefix(event.Callback, cbClaimPrefix))

	case event.Callback == cbRefresh:
		return d.listReplies(ctx)

	case event.Text == courierBack:
		if err := sess.MoveTo(session.StateMainMenu); err != nil {
			return nil, err
		}
		return d.menu("Back to the menu."), nil

	default:
		return d.listReplies(ctx)
	}
}

func (d *CourierDriver) handleClaim(ctx context.Context, sess *session.Session, rawID string) ([]Reply, error) {
	orderID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return d.listReplies(ctx)
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, sess.ActorID())
	if err != nil {
		return nil, err
	}

	claimed, err := d.claim.Handle(ctx, cmd)
	if errors.Is(err, order.ErrNotAvailable) {
		// Lost the race. Specific prompt plus a refreshed list; the session
		// stays in the viewing state.
		list, listErr := d.listReplies(ctx)
		if listErr != nil {
			return nil, listErr
		}
		return append([]Reply{{Text: promptNotAvailable}}, list...), nil
	}
	if err != nil {
		return nil, err
	}

	if err := sess.MoveTo(session.StateOrderAccepted); err != nil {
		return nil, err
	}

	return []Reply{
		{
			Text: fmt.Sprintf(
				"Order is yours!\n%s\nDeliver to: %s\nCall: %s\nPayment: %s",
				claimed.Details(),
				claimed.Location().Address(),
				claimed.Phone(),
				claimed.Payment(),
			),
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Picked up", Code: cbDelivering},
			)},
		},
		{Location: &Point{Lat: claimed.Location().Lat(), Lon: claimed.Location().Lon()}},
	}, nil
}

func (d *CourierDriver) handleOrderAccepted(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch event.Callback {
	case cbDelivering:
		if _, err := d.advanceTo(ctx, sess, order.Delivering); err != nil {
			return nil, err
		}
		return []Reply{{
			Text: "Marked as picked up. Safe trip!",
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Delivered", Code: cbDelivered},
			)},
		}}, nil

	case cbDelivered:
		if _, err := d.advanceTo(ctx, sess, order.Delivered); err != nil {
			return nil, err
		}
		if err := sess.MoveTo(session.StateMainMenu); err != nil {
			return nil, err
		}
		return d.menu("Delivered. Nice work!"), nil

	default:
		return d.assignmentReplies(ctx, sess)
	}
}

func (d *CourierDriver) advanceTo(ctx context.Context, sess *session.Session, next order.Status) (*order.Order, error) {
	q, err := queries.NewGetCourierAssignmentQuery(sess.ActorID())
	if err != nil {
		return nil, err
	}
	assigned, err := d.assignment.Handle(ctx, q)
	if err != nil {
		return nil, err
	}

	cmd, err := commands.NewAdvanceOrderCommand(assigned.ID, sess.ActorID(), next)
	if err != nil {
		return nil, err
	}
	return d.advance.Handle(ctx, cmd)
}

func (d *CourierDriver) listReplies(ctx context.Context) ([]Reply, error) {
	pending, err := d.pending.Handle(ctx, queries.NewListPendingOrdersQuery(0))
	if err != nil {
		return nil, err
	}

	if len(pending) == 0 {
		return []Reply{{
			Text: "No orders waiting right now.",
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Refresh", Code: cbRefresh},
			)},
		}}, nil
	}

	replies := make([]Reply, 0, len(pending)+1)
	for _, o := range pending {
		replies = append(replies, Reply{
			Text: fmt.Sprintf("%s\nTo: %s\nPayment: %s", o.Details, o.Address, o.Payment),
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Claim", Code: cbClaimPrefix + o.ID.String()},
			)},
		})
	}
	replies = append(replies, Reply{
		Text: fmt.Sprintf("%d order(s) waiting.", len(pending)),
		Keyboard: ports.Keyboard{ports.Row(
			ports.Button{Label: "Refresh", Code: cbRefresh},
		)},
	})
	return replies, nil
}

func (d *CourierDriver) assignmentReplies(ctx context.Context, sess *session.Session) ([]Reply, error) {
	q, err := queries.NewGetCourierAssignmentQuery(sess.ActorID())
	if err != nil {
		return nil, err
	}

	assigned, err := d.assignment.Handle(ctx, q)
	if err != nil {
		return d.menu("You have no delivery in progress."), nil
	}

	button := ports.Button{Label: "Picked up", Code: cbDelivering}
	if assigned.Status == order.Delivering {
		button = ports.Button{Label: "Delivered", Code: cbDelivered}
	}

	return []Reply{
		{
			Text: fmt.Sprintf(
				"Current delivery:\n%s\nTo: %s\nCall: %s\nStatus: %s",
				assigned.Details, assigned.Address, assigned.Phone, assigned.Status,
			),
			Keyboard: ports.Keyboard{ports.Row(button)},
		},
		{Location: &Point{Lat: assigned.Lat, Lon: assigned.Lon}},
	}, nil
}

func (d *CourierDriver) menu(text string) []Reply {
	return []Reply{{
		Text: text,
		Keyboard: ports.Keyboard{ports.Row(
			ports.Button{Label: courierOrders},
			ports.Button{Label: courierMyDelivery},
		)},
	}}
}
