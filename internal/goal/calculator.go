package goal

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthloop/goal-engine/internal/models"
)

const (
	// statusTolerance is the fixed band, in percentage points, around the
	// expected progress inside which a goal counts as on track.
	statusTolerance = 10.0

	// avgDaysPerMonth converts remaining days into months for the
	// monthly-required figure.
	avgDaysPerMonth = 30.44

	day = 24 * time.Hour
)

// CalculateProgress derives the progress view for one goal snapshot at one
// instant. Pure: no side effects, same inputs always give the same output.
// The goal's CurrentAmount must already be derived from the aggregation
// source; badges and streaks are filled in by the caller.
func CalculateProgress(g *models.Goal, now time.Time) models.GoalProgress {
	p := models.GoalProgress{
		GoalID:        g.ID,
		OwnerID:       g.OwnerID,
		Name:          g.Name,
		Type:          g.Type,
		TargetAmount:  g.TargetAmount.Round(2),
		CurrentAmount: g.CurrentAmount.Round(2),
	}

	pct := progressPercentage(g)
	p.ProgressPercentage = pct
	p.Status = classify(g, pct, now)

	// Projections only make sense for an active goal with a deadline.
	if g.TargetDate == nil || !g.IsActive {
		return p
	}

	remaining := daysRemaining(*g.TargetDate, now)
	p.DaysRemaining = &remaining

	if remaining > 0 {
		p.MonthlyRequired = monthlyRequired(g, remaining)
	}

	p.ProjectedCompletion = projectedCompletion(g, now)
	return p
}

// progressPercentage is current over target, capped to [0, 100].
func progressPercentage(g *models.Goal) float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).InexactFloat64() * 100
	return math.Min(100, math.Max(0, pct))
}

// classify runs the status decision procedure in its fixed order.
func classify(g *models.Goal, pct float64, now time.Time) models.GoalStatus {
	if pct >= 100 {
		return models.StatusCompleted
	}

	if g.TargetDate == nil || !g.IsActive {
		if pct > 0 {
			return models.StatusOnTrack
		}
		return models.StatusBehind
	}

	if now.After(*g.TargetDate) {
		return models.StatusOverdue
	}

	diff := pct - expectedProgress(g.CreatedAt, *g.TargetDate, now)
	switch {
	case diff > statusTolerance:
		return models.StatusAhead
	case diff < -statusTolerance:
		return models.StatusBehind
	default:
		return models.StatusOnTrack
	}
}

// expectedProgress is the share of the planned duration already elapsed,
// clamped to [0, 100] so degenerate spans never produce nonsense.
func expectedProgress(createdAt, targetDate, now time.Time) float64 {
	total := targetDate.Sub(createdAt)
	if total <= 0 {
		return 100
	}
	expected := float64(now.Sub(createdAt)) / float64(total) * 100
	return math.Min(100, math.Max(0, expected))
}

// daysRemaining counts whole days until the target date, floored at zero.
func daysRemaining(targetDate, now time.Time) int {
	remaining := math.Ceil(float64(targetDate.Sub(now)) / float64(day))
	if remaining < 0 {
		return 0
	}
	return int(remaining)
}

// monthlyRequired is the amount still needed per month to reach the target
// by the deadline, rounded to two decimal places. Callers must guarantee at
// least one day remains.
func monthlyRequired(g *models.Goal, remainingDays int) *decimal.Decimal {
	outstanding := g.TargetAmount.Sub(g.CurrentAmount)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	months := decimal.NewFromFloat(float64(remainingDays) / avgDaysPerMonth)
	required := outstanding.Div(months).Round(2)
	return &required
}

// projectedCompletion extrapolates the observed daily saving rate. With no
// elapsed days or no saved amount there is no rate to extrapolate and the
// field is omitted.
func projectedCompletion(g *models.Goal, now time.Time) *time.Time {
	daysSinceCreation := float64(now.Sub(g.CreatedAt)) / float64(day)
	if daysSinceCreation <= 0 || !g.CurrentAmount.IsPositive() {
		return nil
	}

	current := g.CurrentAmount.InexactFloat64()
	target := g.TargetAmount.InexactFloat64()
	dailyRate := current / daysSinceCreation
	daysToComplete := (target - current) / dailyRate

	projected := now.Add(time.Duration(daysToComplete * float64(day)))
	return &projected
}
