package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wealthloop/goal-engine/internal/database"
	"github.com/wealthloop/goal-engine/internal/goal"
	"github.com/wealthloop/goal-engine/internal/models"
)

func newGoal(ownerID uuid.UUID, name string, goalType models.GoalType) *models.Goal {
	now := time.Now()
	return &models.Goal{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Name:          name,
		Type:          goalType,
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.Zero,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func setupGoalRepo(t *testing.T) (*GoalRepository, *pgxpool.Pool) {
	t.Helper()
	pool := database.TestDB(t)
	database.CleanupTables(t, pool)
	return NewGoalRepository(pool), pool
}

func TestGoalRepositoryCRUD(t *testing.T) {
	repo, _ := setupGoalRepo(t)
	ctx := context.Background()
	ownerID := uuid.New()

	g := newGoal(ownerID, "Emergency fund", models.GoalTypeSavings)
	require.NoError(t, repo.Create(ctx, g))

	t.Run("finds own goal", func(t *testing.T) {
		found, err := repo.FindOne(ctx, g.ID, ownerID)
		require.NoError(t, err)
		require.Equal(t, g.Name, found.Name)
		require.True(t, found.TargetAmount.Equal(g.TargetAmount))
	})

	t.Run("foreign owner sees not found", func(t *testing.T) {
		_, err := repo.FindOne(ctx, g.ID, uuid.New())
		require.ErrorIs(t, err, goal.ErrGoalNotFound)
	})

	t.Run("updates amounts and active flag", func(t *testing.T) {
		g.CurrentAmount = decimal.NewFromInt(1000)
		g.IsActive = false
		require.NoError(t, repo.Update(ctx, g))

		found, err := repo.FindOne(ctx, g.ID, ownerID)
		require.NoError(t, err)
		require.True(t, found.CurrentAmount.Equal(decimal.NewFromInt(1000)))
		require.False(t, found.IsActive)
	})

	t.Run("delete is owner scoped", func(t *testing.T) {
		require.ErrorIs(t, repo.Delete(ctx, g.ID, uuid.New()), goal.ErrGoalNotFound)
		require.NoError(t, repo.Delete(ctx, g.ID, ownerID))
		require.ErrorIs(t, repo.Delete(ctx, g.ID, ownerID), goal.ErrGoalNotFound)
	})
}

func TestGoalRepositoryFindMany(t *testing.T) {
	repo, _ := setupGoalRepo(t)
	ctx := context.Background()
	ownerID := uuid.New()

	savings := newGoal(ownerID, "Rainy day fund", models.GoalTypeSavings)
	savings.Description = "Cash buffer for surprises"
	limit := newGoal(ownerID, "Groceries cap", models.GoalTypeSpendingLimit)
	limit.IsActive = false
	other := newGoal(uuid.New(), "Someone else's fund", models.GoalTypeSavings)

	for _, g := range []*models.Goal{savings, limit, other} {
		require.NoError(t, repo.Create(ctx, g))
	}

	t.Run("scopes to owner", func(t *testing.T) {
		goals, err := repo.FindMany(ctx, ownerID, models.GoalFilter{})
		require.NoError(t, err)
		require.Len(t, goals, 2)
	})

	t.Run("filters by type", func(t *testing.T) {
		savingsType := models.GoalTypeSavings
		goals, err := repo.FindMany(ctx, ownerID, models.GoalFilter{Type: &savingsType})
		require.NoError(t, err)
		require.Len(t, goals, 1)
		require.Equal(t, "Rainy day fund", goals[0].Name)
	})

	t.Run("filters by active flag", func(t *testing.T) {
		active := true
		goals, err := repo.FindMany(ctx, ownerID, models.GoalFilter{IsActive: &active})
		require.NoError(t, err)
		require.Len(t, goals, 1)
	})

	t.Run("search matches description case-insensitively", func(t *testing.T) {
		goals, err := repo.FindMany(ctx, ownerID, models.GoalFilter{Search: "SURPRISES"})
		require.NoError(t, err)
		require.Len(t, goals, 1)
		require.Equal(t, "Rainy day fund", goals[0].Name)
	})
}

func TestGoalRepositoryBatchQueries(t *testing.T) {
	repo, _ := setupGoalRepo(t)
	ctx := context.Background()
	now := time.Now()

	soon := now.AddDate(0, 0, 3)
	past := now.AddDate(0, 0, -3)
	far := now.AddDate(0, 0, 60)

	dueSoon := newGoal(uuid.New(), "Due soon", models.GoalTypeSavings)
	dueSoon.TargetDate = &soon
	overdue := newGoal(uuid.New(), "Overdue", models.GoalTypeSavings)
	overdue.TargetDate = &past
	inactive := newGoal(uuid.New(), "Inactive", models.GoalTypeSavings)
	inactive.TargetDate = &past
	inactive.IsActive = false
	noDeadline := newGoal(uuid.New(), "No deadline", models.GoalTypeSavings)
	farAway := newGoal(uuid.New(), "Far away", models.GoalTypeSavings)
	farAway.TargetDate = &far

	for _, g := range []*models.Goal{dueSoon, overdue, inactive, noDeadline, farAway} {
		require.NoError(t, repo.Create(ctx, g))
	}

	t.Run("finds all active goals", func(t *testing.T) {
		goals, err := repo.FindAllActive(ctx)
		require.NoError(t, err)
		require.Len(t, goals, 4)
	})

	t.Run("window query excludes past and far deadlines", func(t *testing.T) {
		goals, err := repo.FindActiveWithDeadlineBetween(ctx, now, now.AddDate(0, 0, 7))
		require.NoError(t, err)
		require.Len(t, goals, 1)
		require.Equal(t, "Due soon", goals[0].Name)
	})

	t.Run("overdue query skips inactive goals", func(t *testing.T) {
		goals, err := repo.FindActiveOverdue(ctx, now)
		require.NoError(t, err)
		require.Len(t, goals, 1)
		require.Equal(t, "Overdue", goals[0].Name)
	})
}

func TestOwnerGoalStats(t *testing.T) {
	repo, _ := setupGoalRepo(t)
	ctx := context.Background()
	ownerID := uuid.New()

	done := newGoal(ownerID, "Done", models.GoalTypeSavings)
	done.CurrentAmount = decimal.NewFromInt(1000)
	open := newGoal(ownerID, "Open", models.GoalTypeSavings)
	open.CurrentAmount = decimal.NewFromInt(400)
	limit := newGoal(ownerID, "Limit", models.GoalTypeSpendingLimit)
	limit.CurrentAmount = decimal.NewFromInt(900)

	for _, g := range []*models.Goal{done, open, limit} {
		require.NoError(t, repo.Create(ctx, g))
	}

	stats, err := repo.OwnerGoalStats(ctx, ownerID)
	require.NoError(t, err)
	require.Equal(t, 3, stats.GoalsCreated)
	require.Equal(t, 1, stats.GoalsCompleted)
	// Spending-limit amounts do not count as savings.
	require.True(t, stats.TotalSaved.Equal(decimal.NewFromInt(1400)), stats.TotalSaved.String())
}
