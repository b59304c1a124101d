package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akfinance/ledger/internal/model"
)

// How much of the ledger the dashboard shows per month.
const (
	dashboardTopCategories  = 5
	dashboardBudgetPreviews = 3
)

// GetDashboardSummary assembles the monthly overview: income and expense
// totals, balance, the top expense categories, and previews of the first
// few budgets. A user with no data for the period gets zero totals and
// empty lists, never an error.
func (s *Service) GetDashboardSummary(ctx context.Context, userID string, month, year int) (*DashboardSummary, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}

	period := ResolvePeriod(month, year)

	income, err := s.store.SumAmount(ctx, userID, model.TransactionTypeIncome, period, "")
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}
	expense, err := s.store.SumAmount(ctx, userID, model.TransactionTypeExpense, period, "")
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	categoryTotals, err := s.store.SumByCategory(ctx, userID, model.TransactionTypeExpense, period)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}
	if len(categoryTotals) > dashboardTopCategories {
		categoryTotals = categoryTotals[:dashboardTopCategories]
	}

	topCategories := make([]CategoryBreakdown, 0, len(categoryTotals))
	for _, row := range categoryTotals {
		topCategories = append(topCategories, CategoryBreakdown{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Amount:       row.Amount,
		})
	}

	budgets, err := s.store.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if len(budgets) > dashboardBudgetPreviews {
		budgets = budgets[:dashboardBudgetPreviews]
	}

	previews := make([]BudgetPreview, 0, len(budgets))
	for _, budget := range budgets {
		spent, sumErr := s.store.SumAmount(ctx, userID, model.TransactionTypeExpense, period, budget.CategoryID)
		if sumErr != nil {
			return nil, fmt.Errorf("failed to sum budget spend: %w", sumErr)
		}

		cat, catErr := s.store.GetCategory(ctx, userID, budget.CategoryID)
		if catErr != nil {
			return nil, fmt.Errorf("failed to load budget category: %w", catErr)
		}

		previews = append(previews, BudgetPreview{
			CategoryName:    cat.Name,
			LimitAmount:     budget.LimitAmount,
			SpentAmount:     spent,
			ProgressPercent: ProgressPercent(budget.LimitAmount, spent),
		})
	}

	slog.Debug("assembled dashboard summary",
		"user", userID,
		"month", month,
		"year", year,
		"top_categories", len(topCategories),
		"budget_previews", len(previews))

	return &DashboardSummary{
		TotalIncome:   income,
		TotalExpense:  expense,
		Balance:       income.Sub(expense),
		TopCategories: topCategories,
		Budgets:       previews,
	}, nil
}
