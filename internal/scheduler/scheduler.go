// Package scheduler turns the two configured cron expressions into enqueued
// jobs. It only produces work; execution belongs to the jobs worker.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/wealthloop/goal-engine/internal/config"
	"github.com/wealthloop/goal-engine/internal/jobs"
	"github.com/wealthloop/goal-engine/internal/logger"
)

// Scheduler enqueues the recurring batch jobs on their cron cadence and
// offers a manual elevated-priority trigger for the recompute job.
type Scheduler struct {
	cron  *cron.Cron
	queue *jobs.Queue
}

// New builds a scheduler from the configured cron expressions and timezone.
func New(cfg *config.Config, queue *jobs.Queue) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(cfg.Location()))

	s := &Scheduler{cron: c, queue: queue}

	if _, err := c.AddFunc(cfg.UpdateCron, func() {
		s.enqueue(jobs.KindUpdateAllGoals, jobs.PriorityNormal)
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule goal recompute: %w", err)
	}

	if _, err := c.AddFunc(cfg.DeadlineCron, func() {
		s.enqueue(jobs.KindCheckGoalDeadlines, jobs.PriorityNormal)
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule deadline check: %w", err)
	}

	return s, nil
}

// Start begins firing cron entries in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Log.Info().Msg("Scheduler started")
}

// Stop halts the cron timers. Jobs already enqueued stay in the queue.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Log.Info().Msg("Scheduler stopped")
}

// TriggerUpdateAll enqueues an immediate recompute at elevated priority,
// bypassing the hourly cadence. Used by the authenticated manual trigger.
func (s *Scheduler) TriggerUpdateAll() error {
	if err := s.queue.Enqueue(jobs.Job{
		Kind:     jobs.KindUpdateAllGoals,
		Priority: jobs.PriorityElevated,
	}); err != nil {
		return fmt.Errorf("failed to enqueue manual recompute: %w", err)
	}
	logger.Log.Info().Msg("Manual goal recompute enqueued")
	return nil
}

func (s *Scheduler) enqueue(kind jobs.Kind, priority jobs.Priority) {
	if err := s.queue.Enqueue(jobs.Job{Kind: kind, Priority: priority}); err != nil {
		// A full queue means the worker is far behind; dropping the tick
		// is safe because the next cron firing redoes the same work.
		logger.Log.Warn().Err(err).Str("job_kind", string(kind)).Msg("Failed to enqueue scheduled job")
		return
	}
	logger.Log.Debug().Str("job_kind", string(kind)).Msg("Scheduled job enqueued")
}
