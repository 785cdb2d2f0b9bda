// Package jobs contains the in-process job queue and the worker that
// executes the two recurring batch jobs: recomputing every active goal and
// checking goal deadlines.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind names a unit of background work.
type Kind string

const (
	// KindUpdateAllGoals recomputes progress for every active goal.
	KindUpdateAllGoals Kind = "update-all-goals"
	// KindCheckGoalDeadlines sends reminder and overdue notifications.
	KindCheckGoalDeadlines Kind = "check-goal-deadlines"
)

// Priority orders jobs in the queue. Manual triggers run elevated so they
// jump ahead of the scheduled cadence.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityElevated
)

// Job is a transient unit of scheduled work. Payloads are empty; the kind
// fully determines what runs.
type Job struct {
	ID         uuid.UUID
	Kind       Kind
	Priority   Priority
	EnqueuedAt time.Time
}

// ErrQueueFull is returned when the queue cannot accept another job.
var ErrQueueFull = errors.New("job queue is full")

// Queue is a bounded in-memory job queue with two priority lanes. Delivery
// is at-least-once from the worker's perspective: a job survives worker
// retries until its attempts are exhausted.
type Queue struct {
	elevated chan Job
	normal   chan Job
}

// NewQueue creates a queue with the given per-lane capacity.
func NewQueue(size int) *Queue {
	return &Queue{
		elevated: make(chan Job, size),
		normal:   make(chan Job, size),
	}
}

// Enqueue adds a job without blocking. Returns ErrQueueFull when the lane
// for the job's priority has no room.
func (q *Queue) Enqueue(j Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.EnqueuedAt.IsZero() {
		j.EnqueuedAt = time.Now()
	}

	lane := q.normal
	if j.Priority == PriorityElevated {
		lane = q.elevated
	}

	select {
	case lane <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue blocks until a job is available or the context is done. Elevated
// jobs are always preferred over normal ones.
func (q *Queue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case j := <-q.elevated:
		return j, nil
	default:
	}

	select {
	case j := <-q.elevated:
		return j, nil
	case j := <-q.normal:
		return j, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// Len reports how many jobs are waiting across both lanes.
func (q *Queue) Len() int {
	return len(q.elevated) + len(q.normal)
}
