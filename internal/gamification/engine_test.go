package gamification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/wealthloop/goal-engine/internal/models"
)

type fixedStats struct {
	stats models.OwnerGoalStats
}

func (f fixedStats) OwnerGoalStats(_ context.Context, _ uuid.UUID) (models.OwnerGoalStats, error) {
	return f.stats, nil
}

func TestExperienceFor(t *testing.T) {
	t.Parallel()

	t.Run("three created and one completed is 80 points", func(t *testing.T) {
		t.Parallel()
		xp := ExperienceFor(models.OwnerGoalStats{GoalsCreated: 3, GoalsCompleted: 1})
		require.Equal(t, 80, xp)
	})

	t.Run("no goals is zero", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, 0, ExperienceFor(models.OwnerGoalStats{}))
	})
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	t.Run("80 experience resolves to level 1", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, 1, LevelFor(80).Level)
	})

	t.Run("level 2 threshold is 100", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, 1, LevelFor(99).Level)
		require.Equal(t, 2, LevelFor(100).Level)
	})

	t.Run("experience beyond the table hits the ceiling", func(t *testing.T) {
		t.Parallel()
		top := LevelTable()[len(LevelTable())-1]
		require.Equal(t, top.Level, LevelFor(1_000_000).Level)
	})

	t.Run("resolution is monotonic", func(t *testing.T) {
		t.Parallel()
		rapid.Check(t, func(rt *rapid.T) {
			a := rapid.IntRange(0, 100000).Draw(rt, "a")
			b := rapid.IntRange(0, 100000).Draw(rt, "b")
			if a > b {
				a, b = b, a
			}
			if LevelFor(a).Level > LevelFor(b).Level {
				rt.Fatalf("level decreased: %d xp -> L%d, %d xp -> L%d",
					a, LevelFor(a).Level, b, LevelFor(b).Level)
			}
		})
	})
}

func TestLevelTableShape(t *testing.T) {
	t.Parallel()

	table := LevelTable()
	require.Equal(t, 0, table[0].MinExperience, "level 1 must start at zero")
	for i := 1; i < len(table); i++ {
		require.Greater(t, table[i].MinExperience, table[i-1].MinExperience)
		require.Equal(t, table[i].MinExperience, table[i-1].MaxExperience+1,
			"thresholds must be contiguous")
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("recomputes badges from live counts", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(fixedStats{stats: models.OwnerGoalStats{
			GoalsCreated:   5,
			GoalsCompleted: 1,
			TotalSaved:     decimal.NewFromInt(1500),
		}})

		summary, err := e.Summary(ctx, uuid.New())
		require.NoError(t, err)
		require.Equal(t, 100, summary.Experience)
		require.Equal(t, 2, summary.Level.Level)

		var names []string
		for _, b := range summary.Badges {
			names = append(names, b.Badge.ID)
		}
		require.ElementsMatch(t, []string{"first-goal", "five-goals", "first-completion", "saved-1k"}, names)
	})

	t.Run("streak badges are never earned", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(fixedStats{stats: models.OwnerGoalStats{
			GoalsCreated: 100, GoalsCompleted: 100, TotalSaved: decimal.NewFromInt(1_000_000),
		}})

		summary, err := e.Summary(ctx, uuid.New())
		require.NoError(t, err)
		for _, b := range summary.Badges {
			require.NotEqual(t, models.BadgeCategoryStreak, b.Badge.Category)
		}
	})
}

func TestMilestonesReached(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pct  float64
		want []int
	}{
		{0, nil},
		{24.9, nil},
		{25, []int{25}},
		{60, []int{25, 50}},
		{100, []int{25, 50, 75, 100}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, MilestonesReached(tt.pct), "pct %v", tt.pct)
	}
}

func TestStreakIsAlwaysZero(t *testing.T) {
	t.Parallel()

	e := NewEngine(fixedStats{})
	streak := e.Streak(context.Background(), uuid.New())
	require.Zero(t, streak.CurrentStreak)
	require.Zero(t, streak.LongestStreak)
	require.Nil(t, streak.LastActivityDate)
}
