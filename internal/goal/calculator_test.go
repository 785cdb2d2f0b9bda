package goal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wealthloop/goal-engine/internal/models"
)

func testGoal(target, current int64) *models.Goal {
	now := time.Now()
	return &models.Goal{
		ID:            uuid.New(),
		OwnerID:       uuid.New(),
		Name:          "Emergency fund",
		Type:          models.GoalTypeSavings,
		TargetAmount:  decimal.NewFromInt(target),
		CurrentAmount: decimal.NewFromInt(current),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCalculateProgressStatus(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run("zero progress without target date is behind", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 0)
		g.CreatedAt = now.AddDate(0, 0, -10)

		p := CalculateProgress(g, now)
		require.Equal(t, float64(0), p.ProgressPercentage)
		require.Equal(t, models.StatusBehind, p.Status)
	})

	t.Run("partial progress without target date is on track", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 500)
		g.CreatedAt = now.AddDate(0, 0, -10)

		p := CalculateProgress(g, now)
		require.Equal(t, float64(50), p.ProgressPercentage)
		require.Equal(t, models.StatusOnTrack, p.Status)
	})

	t.Run("80 percent at half the planned duration is ahead", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 800)
		g.CreatedAt = now.AddDate(0, 0, -15)
		target := now.AddDate(0, 0, 15)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.Equal(t, float64(80), p.ProgressPercentage)
		require.Equal(t, models.StatusAhead, p.Status)
	})

	t.Run("past target date is overdue", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 400)
		g.CreatedAt = now.AddDate(0, 0, -30)
		target := now.AddDate(0, 0, -2)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.Equal(t, models.StatusOverdue, p.Status)
	})

	t.Run("target reached is completed even when overdue", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 1200)
		g.CreatedAt = now.AddDate(0, 0, -30)
		target := now.AddDate(0, 0, -2)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.Equal(t, float64(100), p.ProgressPercentage)
		require.Equal(t, models.StatusCompleted, p.Status)
	})

	t.Run("within tolerance band is on track", func(t *testing.T) {
		t.Parallel()
		// Halfway through the span at 55%: diff = 5, inside the band.
		g := testGoal(1000, 550)
		g.CreatedAt = now.AddDate(0, 0, -15)
		target := now.AddDate(0, 0, 15)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.Equal(t, models.StatusOnTrack, p.Status)
	})

	t.Run("more than ten points under expected is behind", func(t *testing.T) {
		t.Parallel()
		// Halfway through the span at 30%: diff = -20.
		g := testGoal(1000, 300)
		g.CreatedAt = now.AddDate(0, 0, -15)
		target := now.AddDate(0, 0, 15)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.Equal(t, models.StatusBehind, p.Status)
	})

	t.Run("inactive goal never uses date logic", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 400)
		g.IsActive = false
		g.CreatedAt = now.AddDate(0, 0, -30)
		target := now.AddDate(0, 0, -2)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.Equal(t, models.StatusOnTrack, p.Status)
		require.Nil(t, p.DaysRemaining)
		require.Nil(t, p.MonthlyRequired)
		require.Nil(t, p.ProjectedCompletion)
	})
}

func TestCalculateProgressProjections(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run("days remaining is floored at zero", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 100)
		g.CreatedAt = now.AddDate(0, 0, -30)
		target := now.AddDate(0, 0, -5)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.NotNil(t, p.DaysRemaining)
		require.Equal(t, 0, *p.DaysRemaining)
		require.Nil(t, p.MonthlyRequired, "monthly required is undefined with no days left")
	})

	t.Run("monthly required over one month equals the outstanding amount", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 400)
		g.CreatedAt = now.AddDate(0, 0, -10)
		target := now.Add(time.Duration(avgDaysPerMonth * float64(day)))
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.NotNil(t, p.MonthlyRequired)
		// 600 outstanding over roughly one month.
		require.InDelta(t, 600, p.MonthlyRequired.InexactFloat64(), 25)
	})

	t.Run("projection extrapolates the daily rate", func(t *testing.T) {
		t.Parallel()
		// 100 saved in 10 days: 10/day, 900 outstanding, 90 days out.
		g := testGoal(1000, 100)
		g.CreatedAt = now.AddDate(0, 0, -10)
		target := now.AddDate(0, 0, 120)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.NotNil(t, p.ProjectedCompletion)
		expected := now.AddDate(0, 0, 90)
		require.WithinDuration(t, expected, *p.ProjectedCompletion, time.Hour)
	})

	t.Run("projection omitted with zero current amount", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 0)
		g.CreatedAt = now.AddDate(0, 0, -10)
		target := now.AddDate(0, 0, 30)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.Nil(t, p.ProjectedCompletion)
	})

	t.Run("projection omitted on creation day", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 100)
		g.CreatedAt = now
		target := now.AddDate(0, 0, 30)
		g.TargetDate = &target

		p := CalculateProgress(g, now)
		require.Nil(t, p.ProjectedCompletion)
	})

	t.Run("monetary fields are rounded to two decimals", func(t *testing.T) {
		t.Parallel()
		g := testGoal(1000, 0)
		g.CurrentAmount = decimal.RequireFromString("123.456789")

		p := CalculateProgress(g, now.Add(time.Hour))
		require.Equal(t, "123.46", p.CurrentAmount.String())
	})
}
