package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthloop/goal-engine/internal/database"
	"github.com/wealthloop/goal-engine/internal/models"
)

// AggregationRepository answers the two read-only queries progress
// derivation depends on: transaction sums and investment listings. It
// implements goal.AggregationSource.
type AggregationRepository struct {
	db database.PGXDB
}

// NewAggregationRepository creates a new AggregationRepository.
func NewAggregationRepository(db database.PGXDB) *AggregationRepository {
	return &AggregationRepository{db: db}
}

// SumTransactions totals transaction amounts for an owner with the given
// optional filters applied.
func (r *AggregationRepository) SumTransactions(ctx context.Context, ownerID uuid.UUID, filter models.TransactionFilter) (decimal.Decimal, error) {
	conditions := []string{"owner_id = $1"}
	args := []any{ownerID}

	if filter.Since != nil {
		args = append(args, *filter.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if len(filter.DescriptionMarkers) > 0 {
		var markers []string
		for _, marker := range filter.DescriptionMarkers {
			args = append(args, "%"+marker+"%")
			markers = append(markers, fmt.Sprintf("description ILIKE $%d", len(args)))
		}
		conditions = append(conditions, "("+strings.Join(markers, " OR ")+")")
	}

	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE ` + strings.Join(conditions, " AND ")
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

// ListInvestments retrieves the owner's investment holdings.
func (r *AggregationRepository) ListInvestments(ctx context.Context, ownerID uuid.UUID) ([]models.Investment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, symbol, quantity, average_price, current_price
		FROM investments WHERE owner_id = $1
		ORDER BY symbol
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.OwnerID, &inv.Symbol, &inv.Quantity,
			&inv.AveragePrice, &inv.CurrentPrice); err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investments: %w", err)
	}
	return investments, nil
}
