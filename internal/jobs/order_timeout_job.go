package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const timeoutBatchSize = 50

// OrderTimeoutJob cancels pending orders nobody claimed within the
// configured age. Runs every minute. Cancellation goes through the regular
// command handler so the requester is notified and the conditional write
// protects against a courier claiming the order mid-sweep.
type OrderTimeoutJob struct {
	orders  ports.OrderRepository
	cancel  *commands.CancelOrderCommandHandler
	maxAge  time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time
}

// NewOrderTimeoutJob creates the timeout job. maxAge is how long an order
// may stay pending before it is cancelled.
func NewOrderTimeoutJob(
	orders ports.OrderRepository,
	cancel *commands.CancelOrderCommandHandler,
	maxAge time.Duration,
	logger *slog.Logger,
) *OrderTimeoutJob {
	return &OrderTimeoutJob{
		orders: orders,
		cancel: cancel,
		maxAge: maxAge,
		cron:   cron.New(),
		logger: logger.With("component", "order_timeout_job"),
		now:    time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (j *OrderTimeoutJob) WithClock(now func() time.Time) *OrderTimeoutJob {
	j.now = now
	return j
}

// Start schedules the timeout pass every minute.
func (j *OrderTimeoutJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("order timeout job started (running every minute)",
		"max_age", j.maxAge)
	return nil
}

// Run executes one timeout pass. Exposed for tests and manual runs.
func (j *OrderTimeoutJob) Run(ctx context.Context) {
	cutoff := j.now().Add(-j.maxAge)

	stale, err := j.orders.ListPendingOlderThan(ctx, cutoff, timeoutBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "stale order scan failed", "error", err)
		return
	}

	for _, o := range stale {
		cmd, err := commands.NewForceCancelOrderCommand(o.ID(), "no courier accepted the order in time")
		if err != nil {
			j.logger.ErrorContext(ctx, "timeout cancel build failed",
				"order", o.ID().String(), "error", err)
			continue
		}

		if _, err := j.cancel.Handle(ctx, cmd); err != nil {
			// A courier may have claimed it between the scan and the write.
			if errors.Is(err, order.ErrNotAvailable) || errors.Is(err, order.ErrAlreadyTerminal) {
				continue
			}
			j.logger.ErrorContext(ctx, "timeout cancel failed",
				"order", o.ID().String(), "error", err)
			continue
		}

		j.logger.InfoContext(ctx, "pending order timed out",
			"order", o.ID().String(), "created_at", o.CreatedAt())
	}
}

// Stop stops the timeout job.
func (j *OrderTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.Info("order timeout job stopped")
}
