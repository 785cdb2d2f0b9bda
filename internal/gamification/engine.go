// Package gamification maintains the badge catalog, level table, and
// experience rules, and computes the owner-level reward view.
//
// The engine is stateless: badges and experience are recomputed from live
// goal counts on every call, so there is no persisted ledger and no
// first-earned record. EarnedAt on a badge is always the evaluation time.
package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wealthloop/goal-engine/internal/logger"
	"github.com/wealthloop/goal-engine/internal/models"
)

// StatsSource supplies the live per-owner numbers badge and experience
// recomputation depends on.
type StatsSource interface {
	OwnerGoalStats(ctx context.Context, ownerID uuid.UUID) (models.OwnerGoalStats, error)
}

// Engine evaluates badges, levels, and experience for goal owners.
type Engine struct {
	stats StatsSource
}

// NewEngine creates a gamification engine backed by the given stats source.
func NewEngine(stats StatsSource) *Engine {
	return &Engine{stats: stats}
}

// Summary computes the full reward view for an owner.
func (e *Engine) Summary(ctx context.Context, ownerID uuid.UUID) (*models.GamificationSummary, error) {
	stats, err := e.stats.OwnerGoalStats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner goal stats: %w", err)
	}

	xp := ExperienceFor(stats)
	return &models.GamificationSummary{
		OwnerID:        ownerID,
		Experience:     xp,
		Level:          LevelFor(xp),
		Badges:         earnedBadges(stats, time.Now()),
		GoalsCreated:   stats.GoalsCreated,
		GoalsCompleted: stats.GoalsCompleted,
		TotalSaved:     stats.TotalSaved,
	}, nil
}

// EarnedBadgeNames returns the names of the badges the owner currently
// satisfies.
func (e *Engine) EarnedBadgeNames(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	stats, err := e.stats.OwnerGoalStats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner goal stats: %w", err)
	}

	var names []string
	for _, b := range earnedBadges(stats, time.Now()) {
		names = append(names, b.Badge.Name)
	}
	return names, nil
}

// AwardExperience records an experience-awarding event. With no persisted
// ledger the award is observable only in logs; totals are recomputed from
// goal counts on read.
func (e *Engine) AwardExperience(_ context.Context, ownerID uuid.UUID, action models.ExperienceAction) {
	logger.Log.Debug().
		Str("owner_hash", logger.HashOwnerID(ownerID)).
		Str("action", string(action)).
		Int("points", PointsFor(action)).
		Msg("Experience awarded")
}

// CheckMilestones fires a milestone award for every fixed checkpoint at or
// below the given progress percentage. Nothing records which milestones were
// already awarded, so repeated calls re-award the same checkpoints.
func (e *Engine) CheckMilestones(ctx context.Context, ownerID uuid.UUID, progressPercentage float64) {
	for range MilestonesReached(progressPercentage) {
		e.AwardExperience(ctx, ownerID, models.ActionMilestoneReached)
	}
}

// Streak reports the per-goal streak. Always zero until a daily-activity
// ledger exists to populate it.
func (e *Engine) Streak(_ context.Context, _ uuid.UUID) models.StreakInfo {
	return models.StreakInfo{}
}

// MilestonesReached returns the checkpoints at or below the given
// percentage, in ascending order.
func MilestonesReached(progressPercentage float64) []int {
	var reached []int
	for _, m := range Milestones {
		if progressPercentage >= float64(m) {
			reached = append(reached, m)
		}
	}
	return reached
}

// ExperienceFor recomputes an owner's experience total from goal counts.
func ExperienceFor(stats models.OwnerGoalStats) int {
	return stats.GoalsCreated*PointsFor(models.ActionGoalCreated) +
		stats.GoalsCompleted*PointsFor(models.ActionGoalCompleted)
}

// LevelFor resolves the level for an experience total by scanning the table
// from highest to lowest. Level 1 starts at zero, so a level always matches.
func LevelFor(experience int) models.Level {
	table := LevelTable()
	for i := len(table) - 1; i >= 0; i-- {
		if experience >= table[i].MinExperience {
			return table[i]
		}
	}
	return table[0]
}

// earnedBadges tests every catalog badge against the live stats. A badge is
// earned iff its threshold is met at the moment of the call.
func earnedBadges(stats models.OwnerGoalStats, now time.Time) []models.EarnedBadge {
	var earned []models.EarnedBadge
	for _, b := range Catalog() {
		if badgeSatisfied(b, stats) {
			earned = append(earned, models.EarnedBadge{Badge: b, EarnedAt: now})
		}
	}
	return earned
}

func badgeSatisfied(b models.Badge, stats models.OwnerGoalStats) bool {
	switch b.Requirement.Kind {
	case models.RequirementGoalsCreated:
		return int64(stats.GoalsCreated) >= b.Requirement.Threshold.IntPart()
	case models.RequirementGoalCompletion:
		return int64(stats.GoalsCompleted) >= b.Requirement.Threshold.IntPart()
	case models.RequirementSavingsAmount:
		return stats.TotalSaved.GreaterThanOrEqual(b.Requirement.Threshold)
	case models.RequirementStreakDays:
		// No streak data source yet, so streak badges are never earned.
		return false
	}
	return false
}
