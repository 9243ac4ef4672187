package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// claimFor registers the courier and claims the pending order, returning the
// accepted aggregate.
func claimFor(t *testing.T, f *fixture, orderID kernel.UUID, courierID kernel.ActorID) *order.Order {
	t.Helper()
	f.registerCourier(t, courierID, "Bekzod")
	h := commands.NewClaimOrderCommandHandler(f.uowFactory(), f.notifier).WithClock(testNow)
	cmd, err := commands.NewClaimOrderCommand(orderID, courierID)
	require.NoError(t, err)
	claimed, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return claimed
}

func TestAdvanceOrderCommandHandler_Handle_FullProgress(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	pending := f.addPendingOrder(t, kernel.ActorID(100))
	claimFor(t, f, pending.ID(), kernel.ActorID(200))

	h := commands.NewAdvanceOrderCommandHandler(f.orderUoWFactory(), f.notifier).
		WithClock(testNow)

	cmd, err := commands.NewAdvanceOrderCommand(pending.ID(), kernel.ActorID(200), order.Delivering)
	require.NoError(t, err)
	delivering, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Delivering, delivering.Status())
	assert.Nil(t, delivering.DeliveredAt())

	cmd, err = commands.NewAdvanceOrderCommand(pending.ID(), kernel.ActorID(200), order.Delivered)
	require.NoError(t, err)
	delivered, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Delivered, delivered.Status())
	require.NotNil(t, delivered.DeliveredAt())
	assert.Equal(t, testNow(), *delivered.DeliveredAt())
	require.NotNil(t, delivered.Courier())
	assert.Equal(t, kernel.ActorID(200), *delivered.Courier())

	kinds := []ports.EventKind{}
	for _, e := range f.notifier.Events() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []ports.EventKind{
		ports.EventOrderClaimed,
		ports.EventOrderDelivering,
		ports.EventOrderDelivered,
	}, kinds)
}

func TestAdvanceOrderCommandHandler_Handle_WrongCourier(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	pending := f.addPendingOrder(t, kernel.ActorID(100))
	claimFor(t, f, pending.ID(), kernel.ActorID(200))

	h := commands.NewAdvanceOrderCommandHandler(f.orderUoWFactory(), f.notifier)

	cmd, err := commands.NewAdvanceOrderCommand(pending.ID(), kernel.ActorID(999), order.Delivering)
	require.NoError(t, err)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrOwnershipMismatch)
}

func TestAdvanceOrderCommandHandler_Handle_SkippedStep(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	pending := f.addPendingOrder(t, kernel.ActorID(100))
	claimFor(t, f, pending.ID(), kernel.ActorID(200))

	h := commands.NewAdvanceOrderCommandHandler(f.orderUoWFactory(), f.notifier).
		WithClock(testNow)

	// Accepted -> Delivered skips the pickup step.
	cmd, err := commands.NewAdvanceOrderCommand(pending.ID(), kernel.ActorID(200), order.Delivered)
	require.NoError(t, err)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestAdvanceOrderCommandHandler_Handle_PendingOrder(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	pending := f.addPendingOrder(t, kernel.ActorID(100))

	h := commands.NewAdvanceOrderCommandHandler(f.orderUoWFactory(), f.notifier)

	cmd, err := commands.NewAdvanceOrderCommand(pending.ID(), kernel.ActorID(200), order.Delivering)
	require.NoError(t, err)
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestNewAdvanceOrderCommand_RejectsNonProgressTarget(t *testing.T) {
	_, err := commands.NewAdvanceOrderCommand(kernel.NewUUID(), kernel.ActorID(200), order.Cancelled)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
}
