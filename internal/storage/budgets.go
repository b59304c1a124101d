package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
)

const budgetColumns = `id, user_id, category_id, month, year, limit_amount, currency, created_at, updated_at`

// CreateBudget inserts a new budget. The unique index on (user, category,
// month, year) is the synchronization point for concurrent creations; the
// loser of the race gets a duplicate-resource error.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}

	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		budget.ID,
		budget.UserID,
		budget.CategoryID,
		budget.Month,
		budget.Year,
		budget.LimitAmount.String(),
		budget.Currency,
		budget.CreatedAt.UTC(),
		budget.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return common.Duplicatef("budget already exists for this category and period")
		}
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// GetBudget returns one budget scoped to its owner.
func (s *SQLiteStorage) GetBudget(ctx context.Context, userID, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE id = ? AND user_id = ?`

	budget, err := scanBudget(s.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, common.NotFoundf("budget %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return budget, nil
}

// ListBudgets returns the user's budgets for one period in creation order,
// oldest first. The dashboard relies on this order when it previews the
// first few budgets.
func (s *SQLiteStorage) ListBudgets(ctx context.Context, userID string, month, year int) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = ? AND month = ? AND year = ?
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		budget, scanErr := scanBudget(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", scanErr)
		}
		budgets = append(budgets, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget replaces a budget's limit and currency, scoped to its owner.
func (s *SQLiteStorage) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}

	query := `
		UPDATE budgets
		SET limit_amount = ?, currency = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query,
		budget.LimitAmount.String(),
		budget.Currency,
		budget.UpdatedAt.UTC(),
		budget.ID,
		budget.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return requireRowAffected(result, "budget", budget.ID)
}

// DeleteBudget removes a budget scoped to its owner.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return requireRowAffected(result, "budget", id)
}

func scanBudget(row scannable) (*model.Budget, error) {
	var budget model.Budget
	err := row.Scan(
		&budget.ID,
		&budget.UserID,
		&budget.CategoryID,
		&budget.Month,
		&budget.Year,
		&budget.LimitAmount,
		&budget.Currency,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &budget, nil
}
