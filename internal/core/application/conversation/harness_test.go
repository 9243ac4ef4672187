package conversation_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memstore"
	"dispatch/internal/core/application/conversation"
	"dispatch/internal/core/application/sessions"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/session"
	"dispatch/internal/core/ports"
	"dispatch/internal/ratelimit"

	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingNotifier counts fan-out invocations per event kind.
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

// harness wires the full conversation stack over the in-memory stores.
type harness struct {
	uow      *memstore.UnitOfWork
	store    *sessions.Store
	limiter  *ratelimit.Limiter
	notifier *recordingNotifier
	router   *conversation.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	uow := memstore.NewUnitOfWork()
	store := sessions.NewStore(memstore.NewSessionStore(), 30*time.Minute)
	limiter := ratelimit.NewLimiter(1000, time.Minute, time.Minute)
	notifier := &recordingNotifier{}

	orderFactory := commands.OrderUoWFactoryFunc(func() commands.OrderUoW { return uow })
	fullFactory := commands.UoWFactoryFunc(func() commands.UoW { return uow })

	create := commands.NewCreateOrderCommandHandler(orderFactory, notifier).WithClock(testNow)
	claim := commands.NewClaimOrderCommandHandler(fullFactory, notifier).WithClock(testNow)
	advance := commands.NewAdvanceOrderCommandHandler(orderFactory, notifier).WithClock(testNow)
	cancel := commands.NewCancelOrderCommandHandler(orderFactory, notifier)
	reject := commands.NewRejectOrderCommandHandler(orderFactory, notifier)
	register := commands.NewRegisterCourierCommandHandler(fullFactory).WithClock(testNow)
	remove := commands.NewRemoveCourierCommandHandler(fullFactory)
	grant := commands.NewGrantRoleCommandHandler(fullFactory)

	pendingQ := queries.NewListPendingOrdersQueryHandler(uow.Orders)
	activeQ := queries.NewGetActiveOrderQueryHandler(uow.Orders)
	assignQ := queries.NewGetCourierAssignmentQueryHandler(uow.Orders)
	statsQ := queries.NewGetStatisticsQueryHandler(uow.Orders)
	couriersQ := queries.NewListCouriersQueryHandler(uow.Couriers)

	customerDriver := conversation.NewCustomerDriver(&create, &cancel, activeQ, kernel.DefaultBounds)
	courierDriver := conversation.NewCourierDriver(&claim, &advance, pendingQ, assignQ)
	adminDriver := conversation.NewAdminDriver(
		&cancel, &reject, &register, &remove, &grant,
		pendingQ, statsQ, couriersQ, limiter,
	)

	// The shared admin actor holds the admin role, mirroring the startup
	// seed. Gate behavior for non-members is covered in the router tests.
	require.NoError(t, uow.Roles.Grant(t.Context(), adminID, kernel.RoleAdmin))

	return &harness{
		uow:      uow,
		store:    store,
		limiter:  limiter,
		notifier: notifier,
		router: conversation.NewRouter(
			store, limiter, uow.Roles, discardLogger(),
			customerDriver, courierDriver, adminDriver,
		),
	}
}

func (h *harness) registerCourier(t *testing.T, id kernel.ActorID, name string) {
	t.Helper()
	registered, err := courier.NewCourier(id, name, testNow())
	require.NoError(t, err)
	require.NoError(t, h.uow.Couriers.Add(t.Context(), registered))
}

func (h *harness) customerSays(t *testing.T, actorID kernel.ActorID, event conversation.Event) []conversation.Reply {
	t.Helper()
	event.ActorID = actorID
	return h.router.Dispatch(t.Context(), kernel.RoleCustomer, event)
}

func (h *harness) courierSays(t *testing.T, actorID kernel.ActorID, event conversation.Event) []conversation.Reply {
	t.Helper()
	event.ActorID = actorID
	return h.router.Dispatch(t.Context(), kernel.RoleCourier, event)
}

func (h *harness) adminSays(t *testing.T, actorID kernel.ActorID, event conversation.Event) []conversation.Reply {
	t.Helper()
	event.ActorID = actorID
	return h.router.Dispatch(t.Context(), kernel.RoleAdmin, event)
}

func (h *harness) sessionState(t *testing.T, actorID kernel.ActorID, role kernel.Role) session.State {
	t.Helper()
	sess, err := h.store.Get(t.Context(), actorID, role)
	require.NoError(t, err)
	return sess.State()
}

// firstText finds the first non-empty reply text.
func firstText(replies []conversation.Reply) string {
	for _, r := range replies {
		if r.Text != "" {
			return r.Text
		}
	}
	return ""
}

// findCallback returns the first button code with the given prefix across all
// replies.
func findCallback(replies []conversation.Reply, prefix string) string {
	for _, r := range replies {
		for _, row := range r.Keyboard {
			for _, b := range row {
				if len(b.Code) >= len(prefix) && b.Code[:len(prefix)] == prefix {
					return b.Code
				}
			}
		}
	}
	return ""
}
