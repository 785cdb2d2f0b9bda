// Package goal contains the goal lifecycle service and the pure progress
// calculator. Persistence, aggregation queries, and notification delivery
// stay behind the interfaces defined here.
package goal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthloop/goal-engine/internal/models"
)

// ErrGoalNotFound is returned when a goal does not exist or is not owned by
// the caller. The two cases are indistinguishable to the caller.
var ErrGoalNotFound = errors.New("goal not found")

// ValidationError rejects invalid create/update input. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Store persists goals. Implementations scope FindOne and Delete by owner
// and must return ErrGoalNotFound for absent or foreign goals.
type Store interface {
	Create(ctx context.Context, g *models.Goal) error
	FindMany(ctx context.Context, ownerID uuid.UUID, filter models.GoalFilter) ([]models.Goal, error)
	FindOne(ctx context.Context, id, ownerID uuid.UUID) (*models.Goal, error)
	Update(ctx context.Context, g *models.Goal) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// Batch queries used by the background jobs. Not owner-scoped.
	FindAllActive(ctx context.Context) ([]models.Goal, error)
	FindActiveWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.Goal, error)
	FindActiveOverdue(ctx context.Context, now time.Time) ([]models.Goal, error)
}

// AggregationSource exposes the two read-only queries progress derivation
// depends on.
type AggregationSource interface {
	SumTransactions(ctx context.Context, ownerID uuid.UUID, filter models.TransactionFilter) (decimal.Decimal, error)
	ListInvestments(ctx context.Context, ownerID uuid.UUID) ([]models.Investment, error)
}

// CategoryResolver answers whether a category exists. Used to validate the
// optional category reference on create and update.
type CategoryResolver interface {
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}
