package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
	"dispatch/internal/ratelimit"
)

// Admin menu labels and callback codes.
const (
	adminOrders     = "Orders"
	adminCouriers   = "Couriers"
	adminStatistics = "Statistics"
	adminSettings   = "Settings"
	adminBack       = "Back"

	cbCancelPrefix  = "cancel:"
	cbRejectPrefix  = "reject:"
	cbCourierAdd    = "courier:add"
	cbCourierRemove = "courier:remove:"
)

// AdminDriver serves order moderation, the courier registry and statistics.
// The router checks role-table membership before dispatching here, so every
// event this driver sees comes from a granted admin.
type AdminDriver struct {
	cancel   *commands.CancelOrderCommandHandler
	reject   *commands.RejectOrderCommandHandler
	register *commands.RegisterCourierCommandHandler
	remove   *commands.RemoveCourierCommandHandler
	grant    *commands.GrantRoleCommandHandler

	pending  queries.ListPendingOrdersQueryHandler
	stats    queries.GetStatisticsQueryHandler
	couriers queries.ListCouriersQueryHandler

	limiter *ratelimit.Limiter
}

// NewAdminDriver creates the admin state machine.
func NewAdminDriver(
	cancel *commands.CancelOrderCommandHandler,
	reject *commands.RejectOrderCommandHandler,
	register *commands.RegisterCourierCommandHandler,
	remove *commands.RemoveCourierCommandHandler,
	grant *commands.GrantRoleCommandHandler,
	pending queries.ListPendingOrdersQueryHandler,
	stats queries.GetStatisticsQueryHandler,
	couriers queries.ListCouriersQueryHandler,
	limiter *ratelimit.Limiter,
) *AdminDriver {
	return &AdminDriver{
		cancel:   cancel,
		reject:   reject,
		register: register,
		remove:   remove,
		grant:    grant,
		pending:  pending,
		stats:    stats,
		couriers: couriers,
		limiter:  limiter,
	}
}

// Role implements Driver.
func (d *AdminDriver) Role() kernel.Role { return kernel.RoleAdmin }

// Handle implements Driver.
func (d *AdminDriver) Handle(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	if event.Text == adminBack {
		sess.Reset()
		return d.menu("Main menu."), nil
	}

	switch sess.State() {
	case session.StateMainMenu:
		return d.handleMainMenu(ctx, sess, event)
	case session.StateViewingOrders:
		return d.handleViewingOrders(ctx, sess, event)
	case session.StateManagingCouriers:
		return d.handleManagingCouriers(ctx, sess, event)
	case session.StateAwaitingCourierID:
		return d.handleAwaitingCourierID(ctx, sess, event)
	case session.StateViewingStatistics:
		return d.statisticsReplies(ctx)
	case session.StateSettings:
		return d.handleSettings(ctx, event)
	default:
		sess.Reset()
		return d.menu("Main menu."), nil
	}
}

func (d *AdminDriver) handleMainMenu(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch event.Text {
	case adminOrders:
		if err := sess.MoveTo(session.StateViewingOrders); err != nil {
			return nil, err
		}
		return d.orderReplies(ctx)

	case adminCouriers:
		if err := sess.MoveTo(session.StateManagingCouriers); err != nil {
			return nil, err
		}
		return d.courierReplies(ctx)

	case adminStatistics:
		if err := sess.MoveTo(session.StateViewingStatistics); err != nil {
			return nil, err
		}
		return d.statisticsReplies(ctx)

	case adminSettings:
		if err := sess.MoveTo(session.StateSettings); err != nil {
			return nil, err
		}
		return []Reply{{Text: settingsHelp}}, nil

	default:
		return d.menu("What would you like to manage?"), nil
	}
}

func (d *AdminDriver) handleViewingOrders(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch {
	case strings.HasPrefix(event.Callback, cbCancelPrefix):
		orderID, err := kernel.UUIDFromString(strings.TrimPrefix(event.Callback, cbCancelPrefix))
		if err != nil {
			return d.orderReplies(ctx)
		}
		cmd, err := commands.NewForceCancelOrderCommand(orderID, "cancelled by admin")
		if err != nil {
			return nil, err
		}
		if _, err := d.cancel.Handle(ctx, cmd); err != nil {
			return nil, err
		}
		replies, err := d.orderReplies(ctx)
		if err != nil {
			return nil, err
		}
		return append([]Reply{{Text: "Order cancelled."}}, replies...), nil

	case strings.HasPrefix(event.Callback, cbRejectPrefix):
		rawID := strings.TrimPrefix(event.Callback, cbRejectPrefix)
		if _, err := kernel.UUIDFromString(rawID); err != nil {
			return d.orderReplies(ctx)
		}
		// The reason arrives as the next text message.
		sess.Put(session.DataOrderID, rawID)
		return []Reply{{Text: "Send the rejection reason."}}, nil

	case sess.Value(session.DataOrderID) != "" && strings.TrimSpace(event.Text) != "":
		orderID, err := kernel.UUIDFromString(sess.Value(session.DataOrderID))
		if err != nil {
			sess.Delete(session.DataOrderID)
			return d.orderReplies(ctx)
		}
		cmd, err := commands.NewRejectOrderCommand(orderID, strings.TrimSpace(event.Text))
		if err != nil {
			return nil, err
		}
		if _, err := d.reject.Handle(ctx, cmd); err != nil {
			return nil, err
		}
		sess.Delete(session.DataOrderID)
		replies, err := d.orderReplies(ctx)
		if err != nil {
			return nil, err
		}
		return append([]Reply{{Text: "Order rejected."}}, replies...), nil

	default:
		return d.orderReplies(ctx)
	}
}

func (d *AdminDriver) handleManagingCouriers(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch {
	case event.Callback == cbCourierAdd:
		if err := sess.MoveTo(session.StateAwaitingCourierID); err != nil {
			return nil, err
		}
		return []Reply{{Text: "Send the courier's telegram id, optionally followed by a name."}}, nil

	case strings.HasPrefix(event.Callback, cbCourierRemove):
		raw := strings.TrimPrefix(event.Callback, cbCourierRemove)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return d.courierReplies(ctx)
		}
		cmd, err := commands.NewRemoveCourierCommand(kernel.ActorID(id))
		if err != nil {
			return nil, err
		}
		if _, err := d.remove.Handle(ctx, cmd); err != nil {
			return nil, err
		}
		replies, err := d.courierReplies(ctx)
		if err != nil {
			return nil, err
		}
		return append([]Reply{{Text: "Courier removed."}}, replies...), nil

	default:
		return d.courierReplies(ctx)
	}
}

func (d *AdminDriver) handleAwaitingCourierID(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	fields := strings.Fields(event.Text)
	if len(fields) == 0 {
		return []Reply{{Text: "Send a numeric telegram id."}}, nil
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || id == 0 {
		// Non-numeric input re-prompts without a transition.
		return []Reply{{Text: "That is not a numeric id. Send digits only, like 123456789."}}, nil
	}

	name := strings.Join(fields[1:], " ")
	if name == "" {
		name = "Courier " + fields[0]
	}

	cmd, err := commands.NewRegisterCourierCommand(kernel.ActorID(id), name)
	if err != nil {
		return nil, err
	}
	registered, err := d.register.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err := sess.MoveTo(session.StateManagingCouriers); err != nil {
		return nil, err
	}
	replies, err := d.courierReplies(ctx)
	if err != nil {
		return nil, err
	}
	return append([]Reply{{
		Text: fmt.Sprintf("Registered %s (%d).", registered.Name(), int64(registered.ID())),
	}}, replies...), nil
}

const settingsHelp = "Settings:\n" +
	"promote <id> - grant admin access\n" +
	"unblock <id> - lift a rate-limit block\n" +
	"Back - return to the menu"

func (d *AdminDriver) handleSettings(ctx context.Context, event Event) ([]Reply, error) {
	fields := strings.Fields(event.Text)
	if len(fields) != 2 {
		return []Reply{{Text: settingsHelp}}, nil
	}

	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return []Reply{{Text: "That is not a numeric id.\n" + settingsHelp}}, nil
	}

	switch fields[0] {
	case "promote":
		cmd, err := commands.NewGrantRoleCommand(kernel.ActorID(id), kernel.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if err := d.grant.Handle(ctx, cmd); err != nil {
			return nil, err
		}
		return []Reply{{Text: fmt.Sprintf("Granted admin access to %d.", id)}}, nil

	case "unblock":
		d.limiter.Reset(kernel.ActorID(id))
		return []Reply{{Text: fmt.Sprintf("Rate limit reset for %d.", id)}}, nil

	default:
		return []Reply{{Text: settingsHelp}}, nil
	}
}

func (d *AdminDriver) orderReplies(ctx context.Context) ([]Reply, error) {
	pending, err := d.pending.Handle(ctx, queries.NewListPendingOrdersQuery(0))
	if err != nil {
		return nil, err
	}

	if len(pending) == 0 {
		return []Reply{{Text: "No pending orders."}}, nil
	}

	replies := make([]Reply, 0, len(pending))
	for _, o := range pending {
		replies = append(replies, Reply{
			Text: fmt.Sprintf("%s\nTo: %s\nPayment: %s", o.Details, o.Address, o.Payment),
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Cancel", Code: cbCancelPrefix + o.ID.String()},
				ports.Button{Label: "Reject", Code: cbRejectPrefix + o.ID.String()},
			)},
		})
	}
	return replies, nil
}

func (d *AdminDriver) courierReplies(ctx context.Context) ([]Reply, error) {
	registered, err := d.couriers.Handle(ctx, queries.NewListCouriersQuery())
	if err != nil {
		return nil, err
	}

	replies := []Reply{}
	for _, c := range registered {
		status := "active"
		if !c.Active {
			status = "inactive"
		}
		reply := Reply{
			Text: fmt.Sprintf("%s (%d) - %s", c.Name, int64(c.ID), status),
		}
		if c.Active {
			reply.Keyboard = ports.Keyboard{ports.Row(
				ports.Button{Label: "Remove", Code: cbCourierRemove + strconv.FormatInt(int64(c.ID), 10)},
			)}
		}
		replies = append(replies, reply)
	}

	replies = append(replies, Reply{
		Text: fmt.Sprintf("%d courier(s) registered.", len(registered)),
		Keyboard: ports.Keyboard{ports.Row(
			ports.Button{Label: "Add courier", Code: cbCourierAdd},
		)},
	})
	return replies, nil
}

func (d *AdminDriver) statisticsReplies(ctx context.Context) ([]Reply, error) {
	stats, err := d.stats.Handle(ctx, queries.NewGetStatisticsQuery())
	if err != nil {
		return nil, err
	}

	return []Reply{{Text: fmt.Sprintf(
		"Orders:\nPending: %d\nAccepted: %d\nDelivering: %d\nDelivered: %d\n"+
			"Cancelled: %d\nRejected: %d\nTotal: %d",
		stats.Pending, stats.Accepted, stats.Delivering, stats.Delivered,
		stats.Cancelled, stats.Rejected, stats.Total,
	)}}, nil
}

func (d *AdminDriver) menu(text string) []Reply {
	return []Reply{{
		Text: text,
		Keyboard: ports.Keyboard{
			ports.Row(
				ports.Button{Label: adminOrders},
				ports.Button{Label: adminCouriers},
			),
			ports.Row(
				ports.Button{Label: adminStatistics},
				ports.Button{Label: adminSettings},
			),
		},
	}}
}
