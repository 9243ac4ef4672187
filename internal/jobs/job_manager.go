package jobs

import (
	"fmt"
)

// JobManager coordinates the scheduled jobs as one unit.
type JobManager struct {
	sessionSweep *SessionSweepJob
	orderTimeout *OrderTimeoutJob
}

// NewJobManager bundles the jobs.
func NewJobManager(sessionSweep *SessionSweepJob, orderTimeout *OrderTimeoutJob) *JobManager {
	return &JobManager{
		sessionSweep: sessionSweep,
		orderTimeout: orderTimeout,
	}
}

// StartAll starts every job, stopping the already-started ones when a later
// one fails so a partial start never leaks a running scheduler.
func (jm *JobManager) StartAll() error {
	if err := jm.sessionSweep.Start(); err != nil {
		return fmt.Errorf("failed to start session sweep job: %w", err)
	}

	if err := jm.orderTimeout.Start(); err != nil {
		jm.sessionSweep.Stop()
		return fmt.Errorf("failed to start order timeout job: %w", err)
	}

	return nil
}

// StopAll stops all jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderTimeout.Stop()
	jm.sessionSweep.Stop()
}
