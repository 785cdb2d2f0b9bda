package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS goals (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			target_amount DECIMAL(14, 2) NOT NULL,
			current_amount DECIMAL(14, 2) NOT NULL DEFAULT 0,
			target_date TIMESTAMPTZ,
			category_id UUID REFERENCES categories(id),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_goals_owner_id ON goals(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_is_active ON goals(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_target_date ON goals(target_date)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			amount DECIMAL(14, 2) NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category_id UUID REFERENCES categories(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_owner_id ON transactions(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_category_id ON transactions(category_id)`,

		`CREATE TABLE IF NOT EXISTS investments (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			symbol TEXT NOT NULL,
			quantity DECIMAL(18, 6) NOT NULL,
			average_price DECIMAL(14, 2) NOT NULL,
			current_price DECIMAL(14, 2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_investments_owner_id ON investments(owner_id)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			severity TEXT NOT NULL,
			action_link TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_notifications_owner_id ON notifications(owner_id)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// SeedCategories inserts the default goal categories.
func SeedCategories(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []string{
		"Housing",
		"Transportation",
		"Food",
		"Utilities",
		"Insurance",
		"Healthcare",
		"Debt Payments",
		"Entertainment",
		"Travel",
		"Education",
		"Emergency Fund",
		"Retirement",
		"Investments",
		"Others",
	}

	for _, cat := range categories {
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (id, name)
			VALUES (gen_random_uuid(), $1)
			ON CONFLICT (name) DO NOTHING
		`, cat)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat, err)
		}
	}

	return nil
}
