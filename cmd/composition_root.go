package cmd

import (
	"context"
	"log/slog"

	apihttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/sessionrepo"
	"dispatch/internal/core/application/conversation"
	"dispatch/internal/core/application/sessions"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/notify"
	"dispatch/internal/ratelimit"

	"gorm.io/gorm"
)

// CompositionRoot wires the whole object graph once at startup. Everything
// downstream receives its dependencies from here; no package reaches for
// globals.
type CompositionRoot struct {
	router     *conversation.Router
	notifier   *notify.Notifier
	jobManager *jobs.JobManager
	httpServer *apihttp.Server
	roles      ports.RoleRepository
	adminChat  kernel.ActorID
}

// NewCompositionRoot builds the application over the database connection and
// the per-role outbound senders.
func NewCompositionRoot(cfg Config, db *gorm.DB, senders notify.Senders, logger *slog.Logger) *CompositionRoot {
	uowFactory := postgres.NewGormUnitOfWorkFactory(db)
	orderUoWFactory := commands.OrderUoWFactoryFunc(func() commands.OrderUoW {
		return uowFactory.Create()
	})
	fullUoWFactory := commands.UoWFactoryFunc(func() commands.UoW {
		return uowFactory.Create()
	})

	notifier := notify.NewNotifier(senders, cfg.AdminChat, logger)

	createOrder := commands.NewCreateOrderCommandHandler(orderUoWFactory, notifier)
	claimOrder := commands.NewClaimOrderCommandHandler(fullUoWFactory, notifier)
	advanceOrder := commands.NewAdvanceOrderCommandHandler(orderUoWFactory, notifier)
	cancelOrder := commands.NewCancelOrderCommandHandler(orderUoWFactory, notifier)
	rejectOrder := commands.NewRejectOrderCommandHandler(orderUoWFactory, notifier)
	registerCourier := commands.NewRegisterCourierCommandHandler(fullUoWFactory)
	removeCourier := commands.NewRemoveCourierCommandHandler(fullUoWFactory)
	grantRole := commands.NewGrantRoleCommandHandler(fullUoWFactory)

	// Queries and the router's role gate read outside any transaction.
	var orders ports.OrderRepository = uowFactory.Create().OrderRepository()
	var couriers ports.CourierRepository = uowFactory.Create().CourierRepository()
	var roles ports.RoleRepository = uowFactory.Create().RoleRepository()
	pendingOrders := queries.NewListPendingOrdersQueryHandler(orders)
	activeOrder := queries.NewGetActiveOrderQueryHandler(orders)
	assignment := queries.NewGetCourierAssignmentQueryHandler(orders)
	statistics := queries.NewGetStatisticsQueryHandler(orders)
	listCouriers := queries.NewListCouriersQueryHandler(couriers)

	sessionRepo := sessionrepo.NewGormSessionRepository(db)
	sessionStore := sessions.NewStore(sessionRepo, cfg.SessionTTL)
	limiter := ratelimit.NewLimiter(cfg.RateLimitPoints, cfg.RateLimitWindow, cfg.RateLimitBlock)

	customer := conversation.NewCustomerDriver(&createOrder, &cancelOrder, activeOrder, cfg.ServiceArea)
	courier := conversation.NewCourierDriver(&claimOrder, &advanceOrder, pendingOrders, assignment)
	admin := conversation.NewAdminDriver(
		&cancelOrder, &rejectOrder, &registerCourier, &removeCourier, &grantRole,
		pendingOrders, statistics, listCouriers, limiter,
	)

	router := conversation.NewRouter(sessionStore, limiter, roles, logger, customer, courier, admin)

	jobManager := jobs.NewJobManager(
		jobs.NewSessionSweepJob(sessionRepo, limiter, logger),
		jobs.NewOrderTimeoutJob(orders, &cancelOrder, cfg.PendingOrderTimeout, logger),
	)

	httpServer := apihttp.NewServer(&cancelOrder, pendingOrders, statistics, listCouriers)

	return &CompositionRoot{
		router:     router,
		notifier:   notifier,
		jobManager: jobManager,
		httpServer: httpServer,
		roles:      roles,
		adminChat:  cfg.AdminChat,
	}
}

// SeedRoles grants the configured admin chat the admin role so a fresh
// deployment has one admin principal. Further admins are promoted through
// the settings flow; the grant is idempotent across restarts.
func (c *CompositionRoot) SeedRoles(ctx context.Context) error {
	return c.roles.Grant(ctx, c.adminChat, kernel.RoleAdmin)
}

// Router returns the conversation router shared by all pollers.
func (c *CompositionRoot) Router() *conversation.Router { return c.router }

// Notifier returns the notification fan-out, for shutdown draining.
func (c *CompositionRoot) Notifier() *notify.Notifier { return c.notifier }

// JobManager returns the scheduled jobs coordinator.
func (c *CompositionRoot) JobManager() *jobs.JobManager { return c.jobManager }

// HTTPServer returns the operational HTTP surface.
func (c *CompositionRoot) HTTPServer() *apihttp.Server { return c.httpServer }
