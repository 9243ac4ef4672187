package conversation_test

import (
	"testing"
	"time"

	"dispatch/internal/adapters/out/memstore"
	"dispatch/internal/core/application/conversation"
	"dispatch/internal/core/application/sessions"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tightRouter is a harness variant with a 2-points-per-minute limiter.
func tightRouter(t *testing.T) (*conversation.Router, *ratelimit.Limiter) {
	t.Helper()

	uow := memstore.NewUnitOfWork()
	store := sessions.NewStore(memstore.NewSessionStore(), 30*time.Minute)
	limiter := ratelimit.NewLimiter(2, time.Minute, 5*time.Minute)
	notifier := &recordingNotifier{}

	orderFactory := commands.OrderUoWFactoryFunc(func() commands.OrderUoW { return uow })
	create := commands.NewCreateOrderCommandHandler(orderFactory, notifier)
	cancel := commands.NewCancelOrderCommandHandler(orderFactory, notifier)
	activeQ := queries.NewGetActiveOrderQueryHandler(uow.Orders)

	driver := conversation.NewCustomerDriver(&create, &cancel, activeQ, kernel.DefaultBounds)
	return conversation.NewRouter(store, limiter, uow.Roles, discardLogger(), driver), limiter
}

func TestRouter_RateLimitGate(t *testing.T) {
	router, _ := tightRouter(t)
	actor := kernel.ActorID(100)

	for range 2 {
		replies := router.Dispatch(t.Context(), kernel.RoleCustomer,
			conversation.Event{ActorID: actor, Text: "hi"})
		require.NotEmpty(t, replies)
		assert.NotContains(t, firstText(replies), "Too many requests")
	}

	replies := router.Dispatch(t.Context(), kernel.RoleCustomer,
		conversation.Event{ActorID: actor, Text: "hi"})
	assert.Contains(t, firstText(replies), "Too many requests")
	assert.Contains(t, firstText(replies), "300 seconds")
}

func TestRouter_BlockedActorCannotAdvanceState(t *testing.T) {
	router, limiter := tightRouter(t)
	actor := kernel.ActorID(100)

	// Spend the budget, then try to start the order flow while blocked.
	router.Dispatch(t.Context(), kernel.RoleCustomer,
		conversation.Event{ActorID: actor, Text: "hi"})
	router.Dispatch(t.Context(), kernel.RoleCustomer,
		conversation.Event{ActorID: actor, Text: "hi"})

	replies := router.Dispatch(t.Context(), kernel.RoleCustomer,
		conversation.Event{ActorID: actor, Text: "New order"})
	assert.Contains(t, firstText(replies), "Too many requests")

	// After an operator reset the flow starts normally.
	limiter.Reset(actor)
	replies = router.Dispatch(t.Context(), kernel.RoleCustomer,
		conversation.Event{ActorID: actor, Text: "New order"})
	assert.Contains(t, firstText(replies), "phone")
}

func TestRouter_UnknownRoleFailsSoft(t *testing.T) {
	router, _ := tightRouter(t)

	replies := router.Dispatch(t.Context(), kernel.RoleCourier,
		conversation.Event{ActorID: kernel.ActorID(300), Text: "hi"})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "went wrong")
}

func TestRouter_AdminEventsRequireRoleMembership(t *testing.T) {
	h := newHarness(t)
	outsider := kernel.ActorID(999)

	// Every admin interaction from a non-member bounces at the gate: the
	// courier flow never starts and no registration happens.
	replies := h.adminSays(t, outsider, conversation.Event{Text: "Couriers"})
	assert.Contains(t, firstText(replies), "dispatch staff")

	h.adminSays(t, outsider, conversation.Event{Callback: "courier:add"})
	replies = h.adminSays(t, outsider, conversation.Event{Text: "424242 Mallory"})
	assert.Contains(t, firstText(replies), "dispatch staff")

	_, err := h.uow.Couriers.Get(t.Context(), kernel.ActorID(424242))
	require.Error(t, err)

	// Self-promotion through the settings flow bounces the same way.
	h.adminSays(t, outsider, conversation.Event{Text: "Settings"})
	replies = h.adminSays(t, outsider, conversation.Event{Text: "promote 999"})
	assert.Contains(t, firstText(replies), "dispatch staff")

	has, err := h.uow.Roles.Has(t.Context(), outsider, kernel.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, has)

	// A grant by a real admin opens the gate.
	h.adminSays(t, adminID, conversation.Event{Text: "Settings"})
	replies = h.adminSays(t, adminID, conversation.Event{Text: "promote 999"})
	assert.Contains(t, firstText(replies), "Granted admin access")

	replies = h.adminSays(t, outsider, conversation.Event{Text: "Couriers"})
	assert.NotContains(t, firstText(replies), "dispatch staff")
}
