// Package models defines the domain entities for the goal tracking engine.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalType classifies what a goal tracks.
type GoalType string

// Supported goal types.
const (
	GoalTypeSavings       GoalType = "savings"
	GoalTypeSpendingLimit GoalType = "spending_limit"
	GoalTypeInvestment    GoalType = "investment"
	GoalTypeDebtPayoff    GoalType = "debt_payoff"
)

// ValidGoalType reports whether t is one of the supported goal types.
func ValidGoalType(t GoalType) bool {
	switch t {
	case GoalTypeSavings, GoalTypeSpendingLimit, GoalTypeInvestment, GoalTypeDebtPayoff:
		return true
	}
	return false
}

// GoalStatus classifies a goal's trajectory relative to its deadline.
// Exactly one status holds for a given goal snapshot at a given instant.
type GoalStatus string

const (
	StatusOnTrack   GoalStatus = "on_track"
	StatusBehind    GoalStatus = "behind"
	StatusAhead     GoalStatus = "ahead"
	StatusCompleted GoalStatus = "completed"
	StatusOverdue   GoalStatus = "overdue"
)

// Goal is a user-defined financial target.
//
// CurrentAmount is never set directly by a user; it is recomputed by the
// engine from transaction and investment history on every progress update.
type Goal struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Name          string
	Description   string
	Type          GoalType
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    *time.Time
	CategoryID    *uuid.UUID
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Completed reports whether the goal has reached its target amount.
func (g *Goal) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// GoalFilter narrows FindMany results. Nil fields are ignored.
type GoalFilter struct {
	Type       *GoalType
	IsActive   *bool
	CategoryID *uuid.UUID
	// Search matches name or description, case-insensitive substring.
	Search string
}

// GoalProgress is the derived progress view of one goal at one instant.
// It is computed, never persisted.
type GoalProgress struct {
	GoalID             uuid.UUID
	OwnerID            uuid.UUID
	Name               string
	Type               GoalType
	TargetAmount       decimal.Decimal
	CurrentAmount      decimal.Decimal
	ProgressPercentage float64
	Status             GoalStatus
	// MonthlyRequired is the amount per month still needed to hit the
	// target by the target date. Nil when there is no target date, the
	// goal is inactive, or no days remain.
	MonthlyRequired *decimal.Decimal
	// DaysRemaining until the target date, floored at zero. Nil when
	// there is no target date or the goal is inactive.
	DaysRemaining *int
	// ProjectedCompletion extrapolates the historical daily rate. Nil
	// unless the goal is active with a target date, at least a day old,
	// and has a positive current amount.
	ProjectedCompletion *time.Time
	// Badges currently satisfied by the owner, recomputed live.
	Badges []string
	// CurrentStreak is always 0 until a daily-activity ledger exists.
	CurrentStreak int
}

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionFilter narrows a transaction sum query. Nil fields are ignored.
type TransactionFilter struct {
	Since      *time.Time
	Type       *TransactionType
	CategoryID *uuid.UUID
	// DescriptionMarkers, when set, restricts the sum to transactions
	// whose description contains any of the markers (case-insensitive).
	// Used by debt payoff aggregation.
	DescriptionMarkers []string
}

// Investment is a holding snapshot from the aggregation source.
type Investment struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Symbol       string
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
	CurrentPrice *decimal.Decimal
}

// Value is the holding's worth at the current price, falling back to the
// average purchase price when no current price is known.
func (i Investment) Value() decimal.Decimal {
	price := i.AveragePrice
	if i.CurrentPrice != nil {
		price = *i.CurrentPrice
	}
	return i.Quantity.Mul(price)
}

// BadgeCategory groups badges in the catalog.
type BadgeCategory string

const (
	BadgeCategoryAchievement BadgeCategory = "achievement"
	BadgeCategoryMilestone   BadgeCategory = "milestone"
	BadgeCategoryStreak      BadgeCategory = "streak"
)

// RequirementKind names the live number a badge threshold is tested against.
type RequirementKind string

const (
	RequirementGoalsCreated   RequirementKind = "goals_created"
	RequirementGoalCompletion RequirementKind = "goal_completion"
	RequirementSavingsAmount  RequirementKind = "savings_amount"
	RequirementStreakDays     RequirementKind = "streak_days"
)

// BadgeRequirement is the unlock condition for a badge.
type BadgeRequirement struct {
	Kind      RequirementKind
	Threshold decimal.Decimal
}

// Badge is a static catalog entry. The catalog is immutable and loaded once.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    BadgeCategory
	Requirement BadgeRequirement
}

// EarnedBadge pairs a badge with the time it was observed as earned.
// There is no persisted first-earned record; EarnedAt is the evaluation time.
type EarnedBadge struct {
	Badge    Badge
	EarnedAt time.Time
}

// Level is a static experience tier.
type Level struct {
	Level         int
	MinExperience int
	MaxExperience int
	Title         string
	Benefits      []string
}

// ExperienceAction names an experience-awarding event.
type ExperienceAction string

const (
	ActionGoalCreated      ExperienceAction = "goal_created"
	ActionGoalCompleted    ExperienceAction = "goal_completed"
	ActionMilestoneReached ExperienceAction = "milestone_reached"
	ActionStreakMaintained ExperienceAction = "streak_maintained"
)

// OwnerGoalStats are the live counts the gamification engine recomputes
// badges and experience from.
type OwnerGoalStats struct {
	GoalsCreated   int
	GoalsCompleted int
	// TotalSaved is the sum of CurrentAmount across savings-type goals.
	TotalSaved decimal.Decimal
}

// GamificationSummary is the owner-level reward view.
type GamificationSummary struct {
	OwnerID        uuid.UUID
	Experience     int
	Level          Level
	Badges         []EarnedBadge
	GoalsCreated   int
	GoalsCompleted int
	TotalSaved     decimal.Decimal
}

// StreakInfo is the per-goal streak extension point. No data source
// populates it yet, so all fields stay zero.
type StreakInfo struct {
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate *time.Time
}
