package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wealthloop/goal-engine/internal/database"
)

// CategoryRepository handles category lookups. It implements
// goal.CategoryResolver.
type CategoryRepository struct {
	db database.PGXDB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db database.PGXDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CategoryExists reports whether a category with the given ID exists.
func (r *CategoryRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}
