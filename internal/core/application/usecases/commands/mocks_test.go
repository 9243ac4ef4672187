package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memstore"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testPhone(t *testing.T) kernel.Phone {
	t.Helper()
	phone, err := kernel.NewPhone("+998901234567")
	require.NoError(t, err)
	return phone
}

func testLocation(t *testing.T) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(41.31, 69.28, "Amir Temur 42")
	require.NoError(t, err)
	return loc
}

// recordingNotifier captures events for assertions. Command handlers notify
// synchronously; the real notifier owns the async fan-out.
type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.OrderEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event ports.OrderEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []ports.OrderEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.OrderEvent(nil), n.events...)
}

// fixture drives handlers against the in-memory stores, which carry the same
// conditional-write semantics as postgres.
type fixture struct {
	uow      *memstore.UnitOfWork
	notifier *recordingNotifier
}

func newFixture() *fixture {
	return &fixture{
		uow:      memstore.NewUnitOfWork(),
		notifier: &recordingNotifier{},
	}
}

func (f *fixture) orderUoWFactory() commands.OrderUoWFactory {
	return commands.OrderUoWFactoryFunc(func() commands.OrderUoW { return f.uow })
}

func (f *fixture) uowFactory() commands.UoWFactory {
	return commands.UoWFactoryFunc(func() commands.UoW { return f.uow })
}

func (f *fixture) addPendingOrder(t *testing.T, requesterID kernel.ActorID) *order.Order {
	t.Helper()
	pending, err := order.NewOrder(
		kernel.NewUUID(), requesterID, testPhone(t), testLocation(t),
		"2 lavash", order.PaymentCash, testNow(),
	)
	require.NoError(t, err)
	require.NoError(t, f.uow.Orders.Add(t.Context(), pending))
	return pending
}

func (f *fixture) registerCourier(t *testing.T, id kernel.ActorID, name string) {
	t.Helper()
	registered, err := courier.NewCourier(id, name, testNow())
	require.NoError(t, err)
	require.NoError(t, f.uow.Couriers.Add(t.Context(), registered))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(_ context.Context, _ kernel.UUID) (*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) GetActiveByRequester(ctx context.Context, id kernel.ActorID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetActiveByCourier(_ context.Context, _ kernel.ActorID) (*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) ListByStatus(_ context.Context, _ order.Status, _ int) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) ClaimPending(
	_ context.Context, _ kernel.UUID, _ kernel.ActorID, _ time.Time,
) (*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) UpdateWhereStatus(_ context.Context, _ *order.Order, _ order.Status) error {
	return errors.New("not implemented in mock")
}

func (m *MockOrderRepository) CountByStatus(_ context.Context) (map[order.Status]int64, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) ListPendingOlderThan(_ context.Context, _ time.Time, _ int) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}
