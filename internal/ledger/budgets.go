package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
)

// BudgetInput carries the caller-supplied fields for creating a budget.
// Updates only touch LimitAmount and Currency; a budget's category and
// period are fixed at creation.
type BudgetInput struct {
	CategoryID  string
	Currency    string
	Month       int
	Year        int
	LimitAmount decimal.Decimal
}

// ListBudgets returns the user's budgets for one period, in creation order,
// each joined with the amount spent in the budget's category and the derived
// progress percentage.
func (s *Service) ListBudgets(ctx context.Context, userID string, month, year int) ([]BudgetWithProgress, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}

	budgets, err := s.store.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	results := make([]BudgetWithProgress, 0, len(budgets))
	for i := range budgets {
		withProgress, progressErr := s.budgetWithProgress(ctx, &budgets[i])
		if progressErr != nil {
			return nil, progressErr
		}
		results = append(results, *withProgress)
	}
	return results, nil
}

// budgetWithProgress joins one budget with its period expense sum. Spend is
// always measured against EXPENSE transactions in the budget's category over
// the budget's own month, exclusive of the next month's first instant.
func (s *Service) budgetWithProgress(ctx context.Context, budget *model.Budget) (*BudgetWithProgress, error) {
	period := ResolvePeriod(budget.Month, budget.Year)

	spent, err := s.store.SumAmount(ctx, budget.UserID, model.TransactionTypeExpense, period, budget.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget spend: %w", err)
	}

	cat, err := s.store.GetCategory(ctx, budget.UserID, budget.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget category: %w", err)
	}

	return &BudgetWithProgress{
		ID:              budget.ID,
		Category:        *categoryView(cat),
		Month:           budget.Month,
		Year:            budget.Year,
		LimitAmount:     budget.LimitAmount,
		SpentAmount:     spent,
		Currency:        budget.Currency,
		ProgressPercent: ProgressPercent(budget.LimitAmount, spent),
	}, nil
}

// CreateBudget creates a budget for one category and period. At most one
// budget may exist per (user, category, month, year); a concurrent duplicate
// is rejected by the storage layer's uniqueness enforcement, not by an
// in-process lock.
func (s *Service) CreateBudget(ctx context.Context, userID string, input BudgetInput) (*BudgetWithProgress, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if input.CategoryID == "" {
		return nil, common.Validationf("category id is required")
	}
	if err := validateMonthYear(input.Month, input.Year); err != nil {
		return nil, err
	}
	if err := validateAmount(input.LimitAmount); err != nil {
		return nil, err
	}
	if input.Currency != "" {
		if err := validateCurrency(input.Currency); err != nil {
			return nil, err
		}
	}

	if _, err := s.store.GetCategory(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		var err error
		if currency, err = s.defaultCurrency(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to resolve default currency: %w", err)
		}
	}

	now := time.Now().UTC()
	budget := &model.Budget{
		ID:          uuid.NewString(),
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Month:       input.Month,
		Year:        input.Year,
		LimitAmount: input.LimitAmount,
		Currency:    currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return s.budgetWithProgress(ctx, budget)
}

// UpdateBudget changes a budget's limit and, optionally, its currency.
func (s *Service) UpdateBudget(ctx context.Context, userID, id string, limitAmount decimal.Decimal, currency string) (*BudgetWithProgress, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateAmount(limitAmount); err != nil {
		return nil, err
	}
	if currency != "" {
		if err := validateCurrency(currency); err != nil {
			return nil, err
		}
	}

	budget, err := s.store.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	budget.LimitAmount = limitAmount
	if currency != "" {
		budget.Currency = currency
	}
	budget.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return s.budgetWithProgress(ctx, budget)
}

// DeleteBudget removes a budget by id, scoped to the owner.
func (s *Service) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return s.store.DeleteBudget(ctx, userID, id)
}
