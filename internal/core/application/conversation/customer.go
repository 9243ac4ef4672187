package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
)

// Customer menu labels and callback codes.
const (
	customerNewOrder    = "New order"
	customerMyOrder     = "My order"
	customerCancelOrder = "Cancel order"

	cbPayCash = "pay:cash"
	cbPayCard = "pay:card"
	cbConfirm = "confirm"
	cbEdit    = "edit"
	cbDiscard = "discard"

	cbEditPhone    = "edit:phone"
	cbEditLocation = "edit:location"
	cbEditDetails  = "edit:details"
	cbEditPayment  = "edit:payment"
)

// CustomerDriver walks customers through order placement: phone, location,
// details, payment, confirmation. The session only advances past
// confirmation when the coordinator accepts the order.
type CustomerDriver struct {
	create      *commands.CreateOrderCommandHandler
	cancel      *commands.CancelOrderCommandHandler
	activeOrder queries.GetActiveOrderQueryHandler
	bounds      kernel.Bounds
}

// NewCustomerDriver creates the customer state machine. bounds is the
// service-area box; locations outside it re-prompt.
func NewCustomerDriver(
	create *commands.CreateOrderCommandHandler,
	cancel *commands.CancelOrderCommandHandler,
	activeOrder queries.GetActiveOrderQueryHandler,
	bounds kernel.Bounds,
) *CustomerDriver {
	return &CustomerDriver{
		create:      create,
		cancel:      cancel,
		activeOrder: activeOrder,
		bounds:      bounds,
	}
}

// Role implements Driver.
func (d *CustomerDriver) Role() kernel.Role { return kernel.RoleCustomer }

// Handle implements Driver.
func (d *CustomerDriver) Handle(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch sess.State() {
	case session.StateMainMenu:
		return d.handleMainMenu(ctx, sess, event)
	case session.StateAwaitingPhone:
		return d.handlePhone(sess, event)
	case session.StateAwaitingLocation:
		return d.handleLocation(sess, event)
	case session.StateAwaitingOrderDetails:
		return d.handleDetails(sess, event)
	case session.StateAwaitingPaymentType:
		return d.handlePayment(sess, event)
	case session.StateConfirmation:
		return d.handleConfirmation(ctx, sess, event)
	case session.StateEditing:
		return d.handleEditing(sess, event)
	default:
		sess.Reset()
		return d.menu("Let's start over."), nil
	}
}

func (d *CustomerDriver) handleMainMenu(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch event.Text {
	case customerNewOrder:
		sess.Reset()
		if err := sess.MoveTo(session.StateAwaitingPhone); err != nil {
			return nil, err
		}
		return []Reply{{
			Text: "Share your phone number so the courier can reach you.",
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Share phone", RequestContact: true},
			)},
		}}, nil

	case customerMyOrder:
		q, err := queries.NewGetActiveOrderQuery(sess.ActorID())
		if err != nil {
			return nil, err
		}
		active, err := d.activeOrder.Handle(ctx, q)
		if err != nil {
			return d.menu("You have no order in progress."), nil
		}
		return d.menu(renderActiveOrder(active)), nil

	case customerCancelOrder:
		q, err := queries.NewGetActiveOrderQuery(sess.ActorID())
		if err != nil {
			return nil, err
		}
		active, err := d.activeOrder.Handle(ctx, q)
		if err != nil {
			return d.menu("You have no order to cancel."), nil
		}
		cmd, err := commands.NewCancelOrderCommand(active.ID, sess.ActorID(), "cancelled by customer")
		if err != nil {
			return nil, err
		}
		if _, err := d.cancel.Handle(ctx, cmd); err != nil {
			return nil, err
		}
		return d.menu("Your order was cancelled."), nil

	default:
		return d.menu("What would you like to do?"), nil
	}
}

func (d *CustomerDriver) handlePhone(sess *session.Session, event Event) ([]Reply, error) {
	raw := event.Text
	if event.Contact != nil {
		raw = event.Contact.Phone
	}

	phone, err := kernel.NewPhone(raw)
	if err != nil {
		// Invalid input re-prompts without a transition.
		return []Reply{{
			Text: "That doesn't look like a phone number. Send it like +998901234567.",
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Share phone", RequestContact: true},
			)},
		}}, nil
	}

	sess.Put(session.DataPhone, phone.String())

	if sess.Value(session.DataEditing) != "" {
		sess.Delete(session.DataEditing)
		return d.backToConfirmation(sess)
	}

	if err := sess.MoveTo(session.StateAwaitingLocation); err != nil {
		return nil, err
	}
	return []Reply{{
		Text: "Now send the delivery location.",
		Keyboard: ports.Keyboard{ports.Row(
			ports.Button{Label: "Share location", RequestLocation: true},
		)},
	}}, nil
}

func (d *CustomerDriver) handleLocation(sess *session.Session, event Event) ([]Reply, error) {
	if event.Location == nil {
		return []Reply{{
			Text: "Please share a location point.",
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Share location", RequestLocation: true},
			)},
		}}, nil
	}

	address := strings.TrimSpace(event.Text)
	if address == "" {
		address = fmt.Sprintf("%.5f, %.5f", event.Location.Lat, event.Location.Lon)
	}

	loc, err := kernel.NewLocation(event.Location.Lat, event.Location.Lon, address)
	if err != nil || !d.bounds.Contains(loc) {
		return []Reply{{
			Text: "We don't deliver there yet. Send a location inside the service area.",
		}}, nil
	}

	sess.Put(session.DataLat, strconv.FormatFloat(loc.Lat(), 'f', -1, 64))
	sess.Put(session.DataLon, strconv.FormatFloat(loc.Lon(), 'f', -1, 64))
	sess.Put(session.DataAddress, loc.Address())

	if sess.Value(session.DataEditing) != "" {
		sess.Delete(session.DataEditing)
		return d.backToConfirmation(sess)
	}

	if err := sess.MoveTo(session.StateAwaitingOrderDetails); err != nil {
		return nil, err
	}
	return []Reply{{Text: "What would you like to order?"}}, nil
}

func (d *CustomerDriver) handleDetails(sess *session.Session, event Event) ([]Reply, error) {
	details := strings.TrimSpace(event.Text)
	if details == "" {
		return []Reply{{Text: "Describe your order in a message."}}, nil
	}

	sess.Put(session.DataDetails, details)

	if sess.Value(session.DataEditing) != "" {
		sess.Delete(session.DataEditing)
		return d.backToConfirmation(sess)
	}

	if err := sess.MoveTo(session.StateAwaitingPaymentType); err != nil {
		return nil, err
	}
	return []Reply{{
		Text:     "How will you pay?",
		Keyboard: paymentKeyboard(),
	}}, nil
}

func (d *CustomerDriver) handlePayment(sess *session.Session, event Event) ([]Reply, error) {
	var payment order.Payment
	switch {
	case event.Callback == cbPayCash || strings.EqualFold(event.Text, "cash"):
		payment = order.PaymentCash
	case event.Callback == cbPayCard || strings.EqualFold(event.Text, "card"):
		payment = order.PaymentCard
	default:
		return []Reply{{
			Text:     "Choose a payment method.",
			Keyboard: paymentKeyboard(),
		}}, nil
	}

	sess.Put(session.DataPayment, string(payment))
	sess.Delete(session.DataEditing)
	return d.backToConfirmation(sess)
}

func (d *CustomerDriver) handleConfirmation(ctx context.Context, sess *session.Session, event Event) ([]Reply, error) {
	switch event.Callback {
	case cbConfirm:
		cmd, err := d.buildCreateCommand(sess)
		if err != nil {
			return nil, err
		}
		// The session advances only after the coordinator accepts; on error
		// the router keeps the confirmation state and the accumulator.
		if _, err := d.create.Handle(ctx, cmd); err != nil {
			return nil, err
		}
		sess.Reset()
		return d.menu("Order placed! We'll let you know when a courier picks it up."), nil

	case cbEdit:
		if err := sess.MoveTo(session.StateEditing); err != nil {
			return nil, err
		}
		return []Reply{{
			Text: "What do you want to change?",
			Keyboard: ports.Keyboard{
				ports.Row(
					ports.Button{Label: "Phone", Code: cbEditPhone},
					ports.Button{Label: "Location", Code: cbEditLocation},
				),
				ports.Row(
					ports.Button{Label: "Details", Code: cbEditDetails},
					ports.Button{Label: "Payment", Code: cbEditPayment},
				),
			},
		}}, nil

	case cbDiscard:
		sess.Reset()
		return d.menu("Draft discarded."), nil

	default:
		return d.confirmationReplies(sess)
	}
}

func (d *CustomerDriver) handleEditing(sess *session.Session, event Event) ([]Reply, error) {
	sess.Put(session.DataEditing, "1")

	switch event.Callback {
	case cbEditPhone:
		if err := sess.MoveTo(session.StateAwaitingPhone); err != nil {
			return nil, err
		}
		return []Reply{{
			Text: "Send the new phone number.",
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Share phone", RequestContact: true},
			)},
		}}, nil
	case cbEditLocation:
		if err := sess.MoveTo(session.StateAwaitingLocation); err != nil {
			return nil, err
		}
		return []Reply{{
			Text: "Send the new location.",
			Keyboard: ports.Keyboard{ports.Row(
				ports.Button{Label: "Share location", RequestLocation: true},
			)},
		}}, nil
	case cbEditDetails:
		if err := sess.MoveTo(session.StateAwaitingOrderDetails); err != nil {
			return nil, err
		}
		return []Reply{{Text: "Send the new order details."}}, nil
	case cbEditPayment:
		if err := sess.MoveTo(session.StateAwaitingPaymentType); err != nil {
			return nil, err
		}
		return []Reply{{Text: "Choose a payment method.", Keyboard: paymentKeyboard()}}, nil
	default:
		sess.Delete(session.DataEditing)
		return []Reply{{Text: "Pick one of the fields above."}}, nil
	}
}

func (d *CustomerDriver) buildCreateCommand(sess *session.Session) (commands.CreateOrderCommand, error) {
	phone, err := kernel.NewPhone(sess.Value(session.DataPhone))
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	lat, err := strconv.ParseFloat(sess.Value(session.DataLat), 64)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	lon, err := strconv.ParseFloat(sess.Value(session.DataLon), 64)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	loc, err := kernel.NewLocation(lat, lon, sess.Value(session.DataAddress))
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(
		sess.ActorID(),
		phone,
		loc,
		sess.Value(session.DataDetails),
		order.Payment(sess.Value(session.DataPayment)),
	)
}

func (d *CustomerDriver) backToConfirmation(sess *session.Session) ([]Reply, error) {
	if err := sess.MoveTo(session.StateConfirmation); err != nil {
		return nil, err
	}
	return d.confirmationReplies(sess)
}

func (d *CustomerDriver) confirmationReplies(sess *session.Session) ([]Reply, error) {
	summary := fmt.Sprintf(
		"Please confirm your order:\n%s\nDeliver to: %s\nPhone: %s\nPayment: %s",
		sess.Value(session.DataDetails),
		sess.Value(session.DataAddress),
		sess.Value(session.DataPhone),
		sess.Value(session.DataPayment),
	)
	return []Reply{{
		Text: summary,
		Keyboard: ports.Keyboard{
			ports.Row(
				ports.Button{Label: "Confirm", Code: cbConfirm},
				ports.Button{Label: "Edit", Code: cbEdit},
			),
			ports.Row(
				ports.Button{Label: "Discard", Code: cbDiscard},
			),
		},
	}}, nil
}

func (d *CustomerDriver) menu(text string) []Reply {
	return []Reply{{
		Text: text,
		Keyboard: ports.Keyboard{
			ports.Row(
				ports.Button{Label: customerNewOrder},
				ports.Button{Label: customerMyOrder},
			),
			ports.Row(
				ports.Button{Label: customerCancelOrder},
			),
		},
	}}
}

func paymentKeyboard() ports.Keyboard {
	return ports.Keyboard{ports.Row(
		ports.Button{Label: "Cash", Code: cbPayCash},
		ports.Button{Label: "Card", Code: cbPayCard},
	)}
}

func renderActiveOrder(o queries.ActiveOrderResponse) string {
	text := fmt.Sprintf(
		"Your order: %s\nDeliver to: %s\nStatus: %s",
		o.Details, o.Address, o.Status,
	)
	if o.Status == order.Accepted || o.Status == order.Delivering {
		text += "\nA courier is on it."
	}
	return text
}
