// Package jobs contains the scheduled background work: expired-session
// sweeping and pending-order timeouts. Jobs run on cron schedules and are
// coordinated by the JobManager.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/ratelimit"

	"github.com/robfig/cron/v3"
)

// SessionSweepJob deletes expired session records every minute. Lazy expiry
// on read handles returning actors; the sweep keeps storage bounded for
// actors who never come back. It also prunes stale rate-limit buckets.
type SessionSweepJob struct {
	repo    ports.SessionRepository
	limiter *ratelimit.Limiter
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time
}

// NewSessionSweepJob creates the sweep job.
func NewSessionSweepJob(repo ports.SessionRepository, limiter *ratelimit.Limiter, logger *slog.Logger) *SessionSweepJob {
	return &SessionSweepJob{
		repo:    repo,
		limiter: limiter,
		cron:    cron.New(),
		logger:  logger.With("component", "session_sweep_job"),
		now:     time.Now,
	}
}

// Start schedules the sweep every minute.
func (j *SessionSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("session sweep job started (running every minute)")
	return nil
}

// Run executes one sweep pass. Exposed for tests and manual runs.
func (j *SessionSweepJob) Run(ctx context.Context) {
	deleted, err := j.repo.DeleteExpired(ctx, j.now())
	if err != nil {
		j.logger.ErrorContext(ctx, "session sweep failed", "error", err)
		return
	}

	pruned := j.limiter.Prune()
	if deleted > 0 || pruned > 0 {
		j.logger.InfoContext(ctx, "session sweep completed",
			"sessions_deleted", deleted, "limiter_buckets_pruned", pruned)
	}
}

// Stop stops the sweep job.
func (j *SessionSweepJob) Stop() {
	j.cron.Stop()
	j.logger.Info("session sweep job stopped")
}
