package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wealthloop/goal-engine/internal/goal"
	"github.com/wealthloop/goal-engine/internal/logger"
	"github.com/wealthloop/goal-engine/internal/notify"
)

// DeadlineReminderWindow is how far ahead the deadline check looks when
// sending reminders.
const DeadlineReminderWindow = 7 * 24 * time.Hour

// UpdateAllResult is the aggregate outcome of a full recompute batch.
// Per-goal failures show up only as updatedCount < totalGoals.
type UpdateAllResult struct {
	UpdatedCount int
	TotalGoals   int
}

// DeadlineResult is the aggregate outcome of a deadline check.
type DeadlineResult struct {
	RemindersSent int
	OverdueSent   int
}

// Worker dequeues jobs and executes them with per-job retry and, inside
// batch jobs, per-item failure isolation.
type Worker struct {
	queue       *Queue
	service     *goal.Service
	store       goal.Store
	dispatcher  notify.Dispatcher
	maxAttempts int
	backoffBase time.Duration

	jobsProcessed  metric.Int64Counter
	goalsUpdated   metric.Int64Counter
	updateFailures metric.Int64Counter
	notifsSent     metric.Int64Counter
}

// NewWorker wires the worker to the queue and its collaborators. The retry
// policy (maxAttempts total attempts, exponential backoff from backoffBase)
// applies per job, not per goal.
func NewWorker(
	queue *Queue,
	service *goal.Service,
	store goal.Store,
	dispatcher notify.Dispatcher,
	maxAttempts int,
	backoffBase time.Duration,
) *Worker {
	meter := otel.Meter("github.com/wealthloop/goal-engine/internal/jobs")
	jobsProcessed, _ := meter.Int64Counter("jobs_processed_total",
		metric.WithDescription("Background jobs executed, by kind and outcome"))
	goalsUpdated, _ := meter.Int64Counter("goals_updated_total",
		metric.WithDescription("Goals successfully recomputed by batch jobs"))
	updateFailures, _ := meter.Int64Counter("goal_update_failures_total",
		metric.WithDescription("Per-goal recompute failures inside batch jobs"))
	notifsSent, _ := meter.Int64Counter("notifications_sent_total",
		metric.WithDescription("Reminder and overdue notifications dispatched"))

	return &Worker{
		queue:          queue,
		service:        service,
		store:          store,
		dispatcher:     dispatcher,
		maxAttempts:    maxAttempts,
		backoffBase:    backoffBase,
		jobsProcessed:  jobsProcessed,
		goalsUpdated:   goalsUpdated,
		updateFailures: updateFailures,
		notifsSent:     notifsSent,
	}
}

// Run consumes the queue until the context is done.
func (w *Worker) Run(ctx context.Context) {
	logger.Log.Info().Msg("Job worker started")
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			logger.Log.Info().Msg("Job worker stopped")
			return
		}
		w.execute(ctx, job)
	}
}

// execute runs one job with the retry policy. A job whose attempts are
// exhausted is dropped; there is no further escalation.
func (w *Worker) execute(ctx context.Context, job Job) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = w.backoffBase

	attempt := 0
	operation := func() error {
		attempt++
		if err := w.runJob(ctx, job); err != nil {
			logger.Log.Warn().Err(err).
				Str("job_kind", string(job.Kind)).
				Int("attempt", attempt).
				Msg("Job attempt failed")
			return err
		}
		return nil
	}

	retries := uint64(0)
	if w.maxAttempts > 1 {
		retries = uint64(w.maxAttempts - 1)
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(expo, retries), ctx))
	outcome := "ok"
	if err != nil {
		outcome = "dropped"
		logger.Log.Error().Err(err).
			Str("job_kind", string(job.Kind)).
			Int("attempts", attempt).
			Msg("Job dropped after exhausting retries")
	}
	w.jobsProcessed.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", string(job.Kind)), attribute.String("outcome", outcome)))
}

func (w *Worker) runJob(ctx context.Context, job Job) error {
	switch job.Kind {
	case KindUpdateAllGoals:
		result, err := w.UpdateAllGoals(ctx)
		if err != nil {
			return err
		}
		logger.Log.Info().
			Int("updated", result.UpdatedCount).
			Int("total", result.TotalGoals).
			Msg("Goal recompute batch finished")
		return nil

	case KindCheckGoalDeadlines:
		result, err := w.CheckGoalDeadlines(ctx)
		if err != nil {
			return err
		}
		logger.Log.Info().
			Int("reminders", result.RemindersSent).
			Int("overdue", result.OverdueSent).
			Msg("Deadline check finished")
		return nil
	}

	return fmt.Errorf("unknown job kind %q", job.Kind)
}

// UpdateAllGoals recomputes progress for every active goal. A failure on one
// goal is logged and skipped; it never aborts the batch.
func (w *Worker) UpdateAllGoals(ctx context.Context) (UpdateAllResult, error) {
	goals, err := w.store.FindAllActive(ctx)
	if err != nil {
		return UpdateAllResult{}, fmt.Errorf("failed to list active goals: %w", err)
	}

	result := UpdateAllResult{TotalGoals: len(goals)}
	for i := range goals {
		g := &goals[i]
		if _, err := w.service.UpdateProgress(ctx, g.ID, g.OwnerID); err != nil {
			w.updateFailures.Add(ctx, 1)
			logger.Log.Error().Err(err).
				Str("goal_id", g.ID.String()).
				Str("owner_hash", logger.HashOwnerID(g.OwnerID)).
				Msg("Failed to update goal progress, skipping")
			continue
		}
		result.UpdatedCount++
		w.goalsUpdated.Add(ctx, 1)
	}

	return result, nil
}

// CheckGoalDeadlines sends reminders for active goals due within the next
// seven days and overdue notices for active goals past their target date.
// There is no de-duplication: re-running the job re-sends for goals still in
// the window.
func (w *Worker) CheckGoalDeadlines(ctx context.Context) (DeadlineResult, error) {
	now := time.Now()
	var result DeadlineResult

	upcoming, err := w.store.FindActiveWithDeadlineBetween(ctx, now, now.Add(DeadlineReminderWindow))
	if err != nil {
		return DeadlineResult{}, fmt.Errorf("failed to list goals near deadline: %w", err)
	}
	for i := range upcoming {
		g := &upcoming[i]
		days := int(g.TargetDate.Sub(now).Hours()/24) + 1
		w.dispatcher.Dispatch(ctx, notify.Notification{
			OwnerID:  g.OwnerID,
			Title:    "Goal deadline approaching",
			Message:  fmt.Sprintf("Your goal %q is due in %d day(s).", g.Name, days),
			Severity: notify.SeverityWarning,
		})
		result.RemindersSent++
		w.notifsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "reminder")))
	}

	overdue, err := w.store.FindActiveOverdue(ctx, now)
	if err != nil {
		return DeadlineResult{}, fmt.Errorf("failed to list overdue goals: %w", err)
	}
	for i := range overdue {
		g := &overdue[i]
		w.dispatcher.Dispatch(ctx, notify.Notification{
			OwnerID:  g.OwnerID,
			Title:    "Goal overdue",
			Message:  fmt.Sprintf("Your goal %q has passed its target date.", g.Name),
			Severity: notify.SeverityError,
		})
		result.OverdueSent++
		w.notifsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "overdue")))
	}

	return result, nil
}
