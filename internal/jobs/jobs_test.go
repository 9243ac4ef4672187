package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memstore"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type dropNotifier struct{}

func (dropNotifier) Notify(context.Context, ports.OrderEvent) {}

func addOrderAt(t *testing.T, store *memstore.OrderStore, requesterID kernel.ActorID, createdAt time.Time) *order.Order {
	t.Helper()
	phone, err := kernel.NewPhone("+998901234567")
	require.NoError(t, err)
	loc, err := kernel.NewLocation(41.31, 69.28, "Amir Temur 42")
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(), requesterID, phone, loc, "2 lavash", order.PaymentCash, createdAt,
	)
	require.NoError(t, err)
	require.NoError(t, store.Add(t.Context(), o))
	return o
}

func TestSessionSweepJob_DeletesOnlyExpired(t *testing.T) {
	ctx := t.Context()
	repo := memstore.NewSessionStore()
	limiter := ratelimit.NewLimiter(10, time.Minute, time.Minute)

	expired, err := session.NewSession(kernel.ActorID(100), kernel.RoleCustomer,
		testNow().Add(-time.Hour), 30*time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, expired))

	live, err := session.NewSession(kernel.ActorID(101), kernel.RoleCustomer,
		testNow(), 30*time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, live))

	deleted, err := repo.DeleteExpired(ctx, testNow())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.Find(ctx, kernel.ActorID(100), kernel.RoleCustomer)
	require.Error(t, err)
	_, err = repo.Find(ctx, kernel.ActorID(101), kernel.RoleCustomer)
	require.NoError(t, err)

	// A full job run on the swept store must not touch the survivor.
	job := jobs.NewSessionSweepJob(repo, limiter, discardLogger())
	job.Run(ctx)
	_, err = repo.Find(ctx, kernel.ActorID(101), kernel.RoleCustomer)
	require.NoError(t, err)
}

func TestOrderTimeoutJob_CancelsOnlyStalePending(t *testing.T) {
	ctx := t.Context()
	uow := memstore.NewUnitOfWork()

	stale := addOrderAt(t, uow.Orders, kernel.ActorID(100), testNow().Add(-time.Hour))
	fresh := addOrderAt(t, uow.Orders, kernel.ActorID(101), testNow().Add(-time.Minute))

	claimed := addOrderAt(t, uow.Orders, kernel.ActorID(102), testNow().Add(-time.Hour))
	_, err := uow.Orders.ClaimPending(ctx, claimed.ID(), kernel.ActorID(200), testNow())
	require.NoError(t, err)

	cancel := commands.NewCancelOrderCommandHandler(
		commands.OrderUoWFactoryFunc(func() commands.OrderUoW { return uow }),
		dropNotifier{},
	)

	job := jobs.NewOrderTimeoutJob(uow.Orders, &cancel, 30*time.Minute, discardLogger()).
		WithClock(testNow)
	job.Run(ctx)

	got, err := uow.Orders.Get(ctx, stale.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, got.Status())
	assert.NotEmpty(t, got.Reason())

	got, err = uow.Orders.Get(ctx, fresh.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Pending, got.Status())

	got, err = uow.Orders.Get(ctx, claimed.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Accepted, got.Status())
}
