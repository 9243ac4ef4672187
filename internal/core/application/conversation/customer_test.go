package conversation_test

import (
	"testing"

	"dispatch/internal/core/application/conversation"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerID = kernel.ActorID(100)

// placeOrder drives the whole customer flow to a placed order.
func placeOrder(t *testing.T, h *harness, actorID kernel.ActorID) {
	t.Helper()

	h.customerSays(t, actorID, conversation.Event{Text: "New order"})
	h.customerSays(t, actorID, conversation.Event{
		Contact: &conversation.Contact{Phone: "+998901234567"},
	})
	h.customerSays(t, actorID, conversation.Event{
		Location: &conversation.Point{Lat: 41.30, Lon: 69.70},
	})
	h.customerSays(t, actorID, conversation.Event{Text: "2 lavash"})
	h.customerSays(t, actorID, conversation.Event{Callback: "pay:cash"})
	replies := h.customerSays(t, actorID, conversation.Event{Callback: "confirm"})
	require.Contains(t, firstText(replies), "Order placed")
}

func TestCustomerFlow_PlacesOrder(t *testing.T) {
	h := newHarness(t)

	h.customerSays(t, customerID, conversation.Event{Text: "New order"})
	assert.Equal(t, session.StateAwaitingPhone,
		h.sessionState(t, customerID, kernel.RoleCustomer))

	h.customerSays(t, customerID, conversation.Event{
		Contact: &conversation.Contact{Phone: "+998901234567"},
	})
	assert.Equal(t, session.StateAwaitingLocation,
		h.sessionState(t, customerID, kernel.RoleCustomer))

	h.customerSays(t, customerID, conversation.Event{
		Location: &conversation.Point{Lat: 41.30, Lon: 69.70},
	})
	h.customerSays(t, customerID, conversation.Event{Text: "2 lavash"})
	h.customerSays(t, customerID, conversation.Event{Callback: "pay:cash"})
	assert.Equal(t, session.StateConfirmation,
		h.sessionState(t, customerID, kernel.RoleCustomer))

	replies := h.customerSays(t, customerID, conversation.Event{Callback: "confirm"})
	require.Contains(t, firstText(replies), "Order placed")
	assert.Equal(t, session.StateMainMenu,
		h.sessionState(t, customerID, kernel.RoleCustomer))

	placed, err := h.uow.Orders.GetActiveByRequester(t.Context(), customerID)
	require.NoError(t, err)
	assert.Equal(t, order.Pending, placed.Status())
	assert.Nil(t, placed.Courier())
	assert.Equal(t, order.PaymentCash, placed.Payment())
	assert.Equal(t, "2 lavash", placed.Details())
	assert.Equal(t, "+998901234567", placed.Phone().String())

	// Creation announced to the admin channel exactly once.
	events := h.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ports.EventOrderCreated, events[0].Kind)
}

func TestCustomerFlow_InvalidPhoneRepromptsWithoutTransition(t *testing.T) {
	h := newHarness(t)

	h.customerSays(t, customerID, conversation.Event{Text: "New order"})
	replies := h.customerSays(t, customerID, conversation.Event{Text: "not a phone"})

	assert.Contains(t, firstText(replies), "phone")
	assert.Equal(t, session.StateAwaitingPhone,
		h.sessionState(t, customerID, kernel.RoleCustomer))
}

func TestCustomerFlow_OutOfBoundsLocationReprompts(t *testing.T) {
	h := newHarness(t)

	h.customerSays(t, customerID, conversation.Event{Text: "New order"})
	h.customerSays(t, customerID, conversation.Event{
		Contact: &conversation.Contact{Phone: "+998901234567"},
	})

	// Valid coordinates, but outside the service area.
	replies := h.customerSays(t, customerID, conversation.Event{
		Location: &conversation.Point{Lat: 55.75, Lon: 37.61},
	})

	assert.Contains(t, firstText(replies), "service area")
	assert.Equal(t, session.StateAwaitingLocation,
		h.sessionState(t, customerID, kernel.RoleCustomer))
}

func TestCustomerFlow_SecondOrderConflictKeepsConfirmation(t *testing.T) {
	h := newHarness(t)
	placeOrder(t, h, customerID)

	// Walk the flow again while the first order is still pending.
	h.customerSays(t, customerID, conversation.Event{Text: "New order"})
	h.customerSays(t, customerID, conversation.Event{
		Contact: &conversation.Contact{Phone: "+998901234567"},
	})
	h.customerSays(t, customerID, conversation.Event{
		Location: &conversation.Point{Lat: 41.30, Lon: 69.70},
	})
	h.customerSays(t, customerID, conversation.Event{Text: "1 somsa"})
	h.customerSays(t, customerID, conversation.Event{Callback: "pay:card"})

	replies := h.customerSays(t, customerID, conversation.Event{Callback: "confirm"})
	assert.Contains(t, firstText(replies), "already have an order")

	// Collected data survives the conflict: still at confirmation.
	assert.Equal(t, session.StateConfirmation,
		h.sessionState(t, customerID, kernel.RoleCustomer))
}

func TestCustomerFlow_EditChangesDetailsBeforeConfirm(t *testing.T) {
	h := newHarness(t)

	h.customerSays(t, customerID, conversation.Event{Text: "New order"})
	h.customerSays(t, customerID, conversation.Event{
		Contact: &conversation.Contact{Phone: "+998901234567"},
	})
	h.customerSays(t, customerID, conversation.Event{
		Location: &conversation.Point{Lat: 41.30, Lon: 69.70},
	})
	h.customerSays(t, customerID, conversation.Event{Text: "2 lavash"})
	h.customerSays(t, customerID, conversation.Event{Callback: "pay:cash"})

	h.customerSays(t, customerID, conversation.Event{Callback: "edit"})
	h.customerSays(t, customerID, conversation.Event{Callback: "edit:details"})
	replies := h.customerSays(t, customerID, conversation.Event{Text: "3 lavash"})

	// Editing returns straight to confirmation with the new value.
	assert.Contains(t, firstText(replies), "3 lavash")
	assert.Equal(t, session.StateConfirmation,
		h.sessionState(t, customerID, kernel.RoleCustomer))

	h.customerSays(t, customerID, conversation.Event{Callback: "confirm"})
	placed, err := h.uow.Orders.GetActiveByRequester(t.Context(), customerID)
	require.NoError(t, err)
	assert.Equal(t, "3 lavash", placed.Details())
}

func TestCustomerFlow_CancelFromMenu(t *testing.T) {
	h := newHarness(t)
	placeOrder(t, h, customerID)

	replies := h.customerSays(t, customerID, conversation.Event{Text: "Cancel order"})
	assert.Contains(t, firstText(replies), "cancelled")

	_, err := h.uow.Orders.GetActiveByRequester(t.Context(), customerID)
	require.Error(t, err)
}
