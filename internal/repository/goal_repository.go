// Package repository contains the pgx-backed implementations of the goal
// store, the aggregation source, and the notification sink.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wealthloop/goal-engine/internal/database"
	"github.com/wealthloop/goal-engine/internal/goal"
	"github.com/wealthloop/goal-engine/internal/models"
)

// GoalRepository handles goal database operations. It implements goal.Store
// and gamification.StatsSource.
type GoalRepository struct {
	db database.PGXDB
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(db database.PGXDB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, owner_id, name, description, type, target_amount, current_amount, target_date, category_id, is_active, created_at, updated_at`

// Create inserts a new goal.
func (r *GoalRepository) Create(ctx context.Context, g *models.Goal) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO goals (id, owner_id, name, description, type, target_amount, current_amount, target_date, category_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, g.ID, g.OwnerID, g.Name, g.Description, g.Type, g.TargetAmount, g.CurrentAmount,
		g.TargetDate, g.CategoryID, g.IsActive, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// FindOne retrieves a goal by ID scoped to its owner. Absent and foreign
// goals both report goal.ErrGoalNotFound.
func (r *GoalRepository) FindOne(ctx context.Context, id, ownerID uuid.UUID) (*models.Goal, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+goalColumns+` FROM goals WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	g, err := scanGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// FindMany retrieves the owner's goals with optional filters applied.
func (r *GoalRepository) FindMany(ctx context.Context, ownerID uuid.UUID, filter models.GoalFilter) ([]models.Goal, error) {
	conditions := []string{"owner_id = $1"}
	args := []any{ownerID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + goalColumns + ` FROM goals WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	return scanGoals(rows)
}

// Update persists the full goal record.
func (r *GoalRepository) Update(ctx context.Context, g *models.Goal) error {
	_, err := r.db.Exec(ctx, `
		UPDATE goals SET
			name = $2,
			description = $3,
			type = $4,
			target_amount = $5,
			current_amount = $6,
			target_date = $7,
			category_id = $8,
			is_active = $9,
			updated_at = NOW()
		WHERE id = $1
	`, g.ID, g.Name, g.Description, g.Type, g.TargetAmount, g.CurrentAmount,
		g.TargetDate, g.CategoryID, g.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// Delete removes a goal scoped to its owner.
func (r *GoalRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}

// FindAllActive retrieves every active goal system-wide for batch recompute.
func (r *GoalRepository) FindAllActive(ctx context.Context) ([]models.Goal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+goalColumns+` FROM goals WHERE is_active ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active goals: %w", err)
	}
	defer rows.Close()

	return scanGoals(rows)
}

// FindActiveWithDeadlineBetween retrieves active goals whose target date
// falls inside the window, for deadline reminders.
func (r *GoalRepository) FindActiveWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.Goal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE is_active AND target_date >= $1 AND target_date <= $2
		ORDER BY target_date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals by deadline window: %w", err)
	}
	defer rows.Close()

	return scanGoals(rows)
}

// FindActiveOverdue retrieves active goals whose target date has passed.
func (r *GoalRepository) FindActiveOverdue(ctx context.Context, now time.Time) ([]models.Goal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE is_active AND target_date < $1
		ORDER BY target_date
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue goals: %w", err)
	}
	defer rows.Close()

	return scanGoals(rows)
}

// OwnerGoalStats computes the live counts the gamification engine derives
// badges and experience from. A goal counts as completed once its current
// amount has reached its target.
func (r *GoalRepository) OwnerGoalStats(ctx context.Context, ownerID uuid.UUID) (models.OwnerGoalStats, error) {
	var stats models.OwnerGoalStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE current_amount >= target_amount),
			COALESCE(SUM(current_amount) FILTER (WHERE type = 'savings'), 0)
		FROM goals WHERE owner_id = $1
	`, ownerID).Scan(&stats.GoalsCreated, &stats.GoalsCompleted, &stats.TotalSaved)
	if err != nil {
		return models.OwnerGoalStats{}, fmt.Errorf("failed to get owner goal stats: %w", err)
	}
	return stats, nil
}

// scanGoal reads one goal row.
func scanGoal(row pgx.Row) (*models.Goal, error) {
	var g models.Goal
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.Type,
		&g.TargetAmount, &g.CurrentAmount, &g.TargetDate, &g.CategoryID,
		&g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// scanGoals reads all goal rows.
func scanGoals(rows pgx.Rows) ([]models.Goal, error) {
	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}
