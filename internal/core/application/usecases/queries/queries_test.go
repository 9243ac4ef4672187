package queries_test

import (
	"testing"
	"time"

	"dispatch/internal/adapters/out/memstore"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func addOrder(t *testing.T, store *memstore.OrderStore, requesterID kernel.ActorID, createdAt time.Time) *order.Order {
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

func TestListPendingOrdersQueryHandler_OldestFirstWithLimit(t *testing.T) {
	ctx := t.Context()
	store := memstore.NewOrderStore()

	newest := addOrder(t, store, kernel.ActorID(101), testNow().Add(2*time.Minute))
	oldest := addOrder(t, store, kernel.ActorID(100), testNow())
	middle := addOrder(t, store, kernel.ActorID(102), testNow().Add(time.Minute))

	h := queries.NewListPendingOrdersQueryHandler(store)

	result, err := h.Handle(ctx, queries.NewListPendingOrdersQuery(2))
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.True(t, result[0].ID.IsEqual(oldest.ID()))
	assert.True(t, result[1].ID.IsEqual(middle.ID()))
	_ = newest

	// The list row never leaks the requester's phone; verify the shape holds
	// what the courier screen needs.
	assert.Equal(t, "2 lavash", result[0].Details)
	assert.Equal(t, "Amir Temur 42", result[0].Address)
}

func TestListPendingOrdersQueryHandler_NotConstructed(t *testing.T) {
	h := queries.NewListPendingOrdersQueryHandler(memstore.NewOrderStore())
	_, err := h.Handle(t.Context(), queries.ListPendingOrdersQuery{})
	require.ErrorIs(t, err, queries.ErrListPendingOrdersQueryIsNotConstructed)
}

func TestGetActiveOrderQueryHandler_Found(t *testing.T) {
	ctx := t.Context()
	store := memstore.NewOrderStore()
	active := addOrder(t, store, kernel.ActorID(100), testNow())

	h := queries.NewGetActiveOrderQueryHandler(store)

	q, err := queries.NewGetActiveOrderQuery(kernel.ActorID(100))
	require.NoError(t, err)

	resp, err := h.Handle(ctx, q)
	require.NoError(t, err)
	assert.True(t, resp.ID.IsEqual(active.ID()))
	assert.Equal(t, order.Pending, resp.Status)
	assert.Nil(t, resp.CourierID)
}

func TestGetActiveOrderQueryHandler_NoActiveOrder(t *testing.T) {
	h := queries.NewGetActiveOrderQueryHandler(memstore.NewOrderStore())

	q, err := queries.NewGetActiveOrderQuery(kernel.ActorID(100))
	require.NoError(t, err)

	_, err = h.Handle(t.Context(), q)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetCourierAssignmentQueryHandler_Found(t *testing.T) {
	ctx := t.Context()
	store := memstore.NewOrderStore()
	claimed := addOrder(t, store, kernel.ActorID(100), testNow())

	_, err := store.ClaimPending(ctx, claimed.ID(), kernel.ActorID(200), testNow())
	require.NoError(t, err)

	h := queries.NewGetCourierAssignmentQueryHandler(store)

	q, err := queries.NewGetCourierAssignmentQuery(kernel.ActorID(200))
	require.NoError(t, err)

	resp, err := h.Handle(ctx, q)
	require.NoError(t, err)
	assert.True(t, resp.ID.IsEqual(claimed.ID()))
	assert.Equal(t, order.Accepted, resp.Status)
	assert.Equal(t, "+998901234567", resp.Phone.String())
	assert.InDelta(t, 41.31, resp.Lat, 0.0001)
	assert.InDelta(t, 69.28, resp.Lon, 0.0001)
}

func TestGetCourierAssignmentQueryHandler_NoAssignment(t *testing.T) {
	h := queries.NewGetCourierAssignmentQueryHandler(memstore.NewOrderStore())

	q, err := queries.NewGetCourierAssignmentQuery(kernel.ActorID(200))
	require.NoError(t, err)

	_, err = h.Handle(t.Context(), q)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetStatisticsQueryHandler_Counts(t *testing.T) {
	ctx := t.Context()
	store := memstore.NewOrderStore()

	addOrder(t, store, kernel.ActorID(100), testNow())
	claimed := addOrder(t, store, kernel.ActorID(101), testNow())
	_, err := store.ClaimPending(ctx, claimed.ID(), kernel.ActorID(200), testNow())
	require.NoError(t, err)

	cancelled := addOrder(t, store, kernel.ActorID(102), testNow())
	loaded, err := store.Get(ctx, cancelled.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Cancel("test"))
	require.NoError(t, store.UpdateWhereStatus(ctx, loaded, order.Pending))

	h := queries.NewGetStatisticsQueryHandler(store)

	resp, err := h.Handle(ctx, queries.NewGetStatisticsQuery())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Pending)
	assert.Equal(t, int64(1), resp.Accepted)
	assert.Equal(t, int64(1), resp.Cancelled)
	assert.Equal(t, int64(3), resp.Total)
}

func TestListCouriersQueryHandler_IncludesDeactivated(t *testing.T) {
	ctx := t.Context()
	store := memstore.NewCourierStore()

	active, err := courier.NewCourier(kernel.ActorID(200), "Bekzod", testNow())
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, active))

	inactive, err := courier.NewCourier(kernel.ActorID(201), "Dilshod", testNow())
	require.NoError(t, err)
	inactive.Deactivate()
	require.NoError(t, store.Add(ctx, inactive))

	h := queries.NewListCouriersQueryHandler(store)

	result, err := h.Handle(ctx, queries.NewListCouriersQuery())
	require.NoError(t, err)
	require.Len(t, result, 2)

	byID := map[kernel.ActorID]queries.CourierResponse{}
	for _, c := range result {
		byID[c.ID] = c
	}
	assert.True(t, byID[kernel.ActorID(200)].Active)
	assert.False(t, byID[kernel.ActorID(201)].Active)
	assert.Equal(t, "Dilshod", byID[kernel.ActorID(201)].Name)
}
