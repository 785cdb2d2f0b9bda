package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthloop/goal-engine/internal/gamification"
	"github.com/wealthloop/goal-engine/internal/logger"
	"github.com/wealthloop/goal-engine/internal/models"
	"github.com/wealthloop/goal-engine/internal/notify"
)

// CreateGoalInput is the caller-supplied payload for a new goal.
type CreateGoalInput struct {
	Name         string
	Description  string
	Type         models.GoalType
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
	CategoryID   *uuid.UUID
}

// UpdateGoalInput patches an existing goal. Nil fields are left unchanged;
// ClearTargetDate removes the deadline.
type UpdateGoalInput struct {
	Name            *string
	Description     *string
	TargetAmount    *decimal.Decimal
	TargetDate      *time.Time
	ClearTargetDate bool
	CategoryID      *uuid.UUID
	IsActive        *bool
}

// Service orchestrates the goal lifecycle: validation, persistence, progress
// recomputation, reward hooks, and notifications.
type Service struct {
	store       Store
	agg         AggregationSource
	categories  CategoryResolver
	rewards     *gamification.Engine
	dispatcher  notify.Dispatcher
	debtMarkers []string
}

// NewService wires the lifecycle service to its collaborators. debtMarkers
// are the description substrings that identify debt repayment transactions.
func NewService(
	store Store,
	agg AggregationSource,
	categories CategoryResolver,
	rewards *gamification.Engine,
	dispatcher notify.Dispatcher,
	debtMarkers []string,
) *Service {
	return &Service{
		store:       store,
		agg:         agg,
		categories:  categories,
		rewards:     rewards,
		dispatcher:  dispatcher,
		debtMarkers: debtMarkers,
	}
}

// Create validates and persists a new goal, awards creation experience, and
// emits a creation notification.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateGoalInput) (*models.Goal, error) {
	if input.Name == "" {
		return nil, &ValidationError{Reason: "goal name is required"}
	}
	if !models.ValidGoalType(input.Type) {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown goal type %q", input.Type)}
	}
	if !input.TargetAmount.IsPositive() {
		return nil, &ValidationError{Reason: "target amount must be positive"}
	}
	if err := s.validateTargetDate(input.TargetDate); err != nil {
		return nil, err
	}
	if err := s.validateCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	g := &models.Goal{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Name:          input.Name,
		Description:   input.Description,
		Type:          input.Type,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    input.TargetDate,
		CategoryID:    input.CategoryID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.rewards.AwardExperience(ctx, ownerID, models.ActionGoalCreated)
	s.dispatcher.Dispatch(ctx, notify.Notification{
		OwnerID:  ownerID,
		Title:    "New goal created",
		Message:  fmt.Sprintf("Your goal %q is now being tracked.", g.Name),
		Severity: notify.SeverityInfo,
	})

	logger.Log.Info().
		Str("owner_hash", logger.HashOwnerID(ownerID)).
		Str("goal_id", g.ID.String()).
		Str("type", string(g.Type)).
		Msg("Goal created")

	return g, nil
}

// Update validates and persists a patch to an existing goal. Ownership is
// enforced by the scoped FindOne.
func (s *Service) Update(ctx context.Context, id, ownerID uuid.UUID, input UpdateGoalInput) (*models.Goal, error) {
	g, err := s.store.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.TargetDate != nil {
		if err := s.validateTargetDate(input.TargetDate); err != nil {
			return nil, err
		}
		g.TargetDate = input.TargetDate
	}
	if input.ClearTargetDate {
		g.TargetDate = nil
	}
	if input.CategoryID != nil {
		if err := s.validateCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		g.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, &ValidationError{Reason: "goal name is required"}
		}
		g.Name = *input.Name
	}
	if input.Description != nil {
		g.Description = *input.Description
	}
	if input.TargetAmount != nil {
		if !input.TargetAmount.IsPositive() {
			return nil, &ValidationError{Reason: "target amount must be positive"}
		}
		g.TargetAmount = *input.TargetAmount
	}
	if input.IsActive != nil {
		g.IsActive = *input.IsActive
	}

	g.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return g, nil
}

// Remove deletes a goal after verifying ownership. A second call reports
// ErrGoalNotFound.
func (s *Service) Remove(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.store.FindOne(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

// FindOne returns a single goal scoped to its owner.
func (s *Service) FindOne(ctx context.Context, id, ownerID uuid.UUID) (*models.Goal, error) {
	return s.store.FindOne(ctx, id, ownerID)
}

// FindMany returns the owner's goals, optionally filtered.
func (s *Service) FindMany(ctx context.Context, ownerID uuid.UUID, filter models.GoalFilter) ([]models.Goal, error) {
	return s.store.FindMany(ctx, ownerID, filter)
}

// UpdateProgress recomputes the goal's current amount from the aggregation
// source, persists it, runs the milestone check, performs the one-way
// completion transition when the target is reached, and returns the fresh
// progress view.
func (s *Service) UpdateProgress(ctx context.Context, id, ownerID uuid.UUID) (*models.GoalProgress, error) {
	g, err := s.store.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	prevPct := progressPercentage(g)

	amount, err := s.deriveCurrentAmount(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("failed to derive current amount: %w", err)
	}

	g.CurrentAmount = amount
	g.UpdatedAt = time.Now()
	newPct := progressPercentage(g)

	s.rewards.CheckMilestones(ctx, g.OwnerID, newPct)

	// Completion is a one-way transition guarded by the active flag, so a
	// second recompute on a finished goal does not re-fire the side effects.
	completed := g.Completed() && g.IsActive
	if completed {
		g.IsActive = false
	}

	if err := s.store.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to persist progress: %w", err)
	}

	if completed {
		s.rewards.AwardExperience(ctx, g.OwnerID, models.ActionGoalCompleted)
		s.dispatcher.Dispatch(ctx, notify.Notification{
			OwnerID:  g.OwnerID,
			Title:    "Goal completed",
			Message:  fmt.Sprintf("Congratulations! You reached your goal %q.", g.Name),
			Severity: notify.SeveritySuccess,
		})
		logger.Log.Info().
			Str("owner_hash", logger.HashOwnerID(g.OwnerID)).
			Str("goal_id", g.ID.String()).
			Msg("Goal completed")
	}

	s.notifyProgressCrossings(ctx, g, prevPct, newPct)

	return s.buildProgress(ctx, g), nil
}

// ProgressFor returns the progress view computed from the stored snapshot,
// without recomputing the current amount.
func (s *Service) ProgressFor(ctx context.Context, id, ownerID uuid.UUID) (*models.GoalProgress, error) {
	g, err := s.store.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.buildProgress(ctx, g), nil
}

// ProgressForAll returns progress views for all of the owner's goals.
func (s *Service) ProgressForAll(ctx context.Context, ownerID uuid.UUID) ([]models.GoalProgress, error) {
	goals, err := s.store.FindMany(ctx, ownerID, models.GoalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	badges := s.badgeNames(ctx, ownerID)
	now := time.Now()
	progresses := make([]models.GoalProgress, 0, len(goals))
	for i := range goals {
		p := CalculateProgress(&goals[i], now)
		p.Badges = badges
		p.CurrentStreak = s.rewards.Streak(ctx, goals[i].ID).CurrentStreak
		progresses = append(progresses, p)
	}
	return progresses, nil
}

// deriveCurrentAmount runs the type-specific aggregation for a goal.
func (s *Service) deriveCurrentAmount(ctx context.Context, g *models.Goal) (decimal.Decimal, error) {
	switch g.Type {
	case models.GoalTypeSavings:
		sum, err := s.agg.SumTransactions(ctx, g.OwnerID, models.TransactionFilter{
			Since:      &g.CreatedAt,
			CategoryID: g.CategoryID,
		})
		if err != nil {
			return decimal.Zero, err
		}
		if sum.IsNegative() {
			sum = decimal.Zero
		}
		return sum, nil

	case models.GoalTypeSpendingLimit:
		start := startOfMonth(time.Now())
		expense := models.TransactionTypeExpense
		sum, err := s.agg.SumTransactions(ctx, g.OwnerID, models.TransactionFilter{
			Since:      &start,
			Type:       &expense,
			CategoryID: g.CategoryID,
		})
		if err != nil {
			return decimal.Zero, err
		}
		return sum.Abs(), nil

	case models.GoalTypeInvestment:
		investments, err := s.agg.ListInvestments(ctx, g.OwnerID)
		if err != nil {
			return decimal.Zero, err
		}
		total := decimal.Zero
		for _, inv := range investments {
			total = total.Add(inv.Value())
		}
		return total, nil

	case models.GoalTypeDebtPayoff:
		expense := models.TransactionTypeExpense
		sum, err := s.agg.SumTransactions(ctx, g.OwnerID, models.TransactionFilter{
			Since:              &g.CreatedAt,
			Type:               &expense,
			CategoryID:         g.CategoryID,
			DescriptionMarkers: s.debtMarkers,
		})
		if err != nil {
			return decimal.Zero, err
		}
		return sum.Abs(), nil
	}

	return decimal.Zero, fmt.Errorf("unsupported goal type %q", g.Type)
}

// notifyProgressCrossings emits one notification per breakpoint crossed by
// this recompute. Reads the same fixed breakpoints as the milestone check
// but independently of it.
func (s *Service) notifyProgressCrossings(ctx context.Context, g *models.Goal, prevPct, newPct float64) {
	for _, bp := range gamification.Milestones {
		if prevPct < float64(bp) && newPct >= float64(bp) {
			s.dispatcher.Dispatch(ctx, notify.Notification{
				OwnerID:  g.OwnerID,
				Title:    fmt.Sprintf("%d%% progress reached", bp),
				Message:  fmt.Sprintf("Your goal %q is %d%% of the way there.", g.Name, bp),
				Severity: notify.SeverityInfo,
			})
		}
	}
}

// buildProgress runs the calculator and fills in live badges and streaks.
func (s *Service) buildProgress(ctx context.Context, g *models.Goal) *models.GoalProgress {
	p := CalculateProgress(g, time.Now())
	p.Badges = s.badgeNames(ctx, g.OwnerID)
	p.CurrentStreak = s.rewards.Streak(ctx, g.ID).CurrentStreak
	return &p
}

// badgeNames fetches the owner's earned badge names; a failure here only
// degrades the progress view, it never fails the operation.
func (s *Service) badgeNames(ctx context.Context, ownerID uuid.UUID) []string {
	badges, err := s.rewards.EarnedBadgeNames(ctx, ownerID)
	if err != nil {
		logger.Log.Warn().Err(err).
			Str("owner_hash", logger.HashOwnerID(ownerID)).
			Msg("Failed to evaluate badges")
		return nil
	}
	return badges
}

func (s *Service) validateTargetDate(targetDate *time.Time) error {
	if targetDate != nil && !targetDate.After(time.Now()) {
		return &ValidationError{Reason: "target date must be in the future"}
	}
	return nil
}

func (s *Service) validateCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	exists, err := s.categories.CategoryExists(ctx, *categoryID)
	if err != nil {
		return fmt.Errorf("failed to resolve category: %w", err)
	}
	if !exists {
		return &ValidationError{Reason: "category does not exist"}
	}
	return nil
}

func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
