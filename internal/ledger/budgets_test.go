package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
)

func TestCreateBudget(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()
	groceries := mustCreateCategory(t, svc, userID, "Groceries", model.TransactionTypeExpense)

	budget, err := svc.CreateBudget(ctx, userID, BudgetInput{
		CategoryID:  groceries,
		Month:       3,
		Year:        2025,
		LimitAmount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	assert.Equal(t, "Groceries", budget.Category.Name)
	assert.Equal(t, model.DefaultCurrency, budget.Currency)
	assert.True(t, budget.SpentAmount.IsZero())
	assert.InDelta(t, 0.0, budget.ProgressPercent, 1e-9)

	// Second budget for the same category and period is a conflict.
	_, err = svc.CreateBudget(ctx, userID, BudgetInput{
		CategoryID:  groceries,
		Month:       3,
		Year:        2025,
		LimitAmount: decimal.NewFromInt(300),
	})
	assert.True(t, common.IsDuplicate(err), "got %v", err)

	// Same category, different month is fine.
	_, err = svc.CreateBudget(ctx, userID, BudgetInput{
		CategoryID:  groceries,
		Month:       4,
		Year:        2025,
		LimitAmount: decimal.NewFromInt(300),
	})
	assert.NoError(t, err)
}

func TestCreateBudget_Validation(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()
	groceries := mustCreateCategory(t, svc, userID, "Groceries", model.TransactionTypeExpense)

	tests := []struct {
		name  string
		input BudgetInput
	}{
		{"missing category", BudgetInput{Month: 3, Year: 2025, LimitAmount: decimal.NewFromInt(100)}},
		{"month too small", BudgetInput{CategoryID: groceries, Month: 0, Year: 2025, LimitAmount: decimal.NewFromInt(100)}},
		{"month too large", BudgetInput{CategoryID: groceries, Month: 13, Year: 2025, LimitAmount: decimal.NewFromInt(100)}},
		{"year too small", BudgetInput{CategoryID: groceries, Month: 3, Year: 1999, LimitAmount: decimal.NewFromInt(100)}},
		{"year too large", BudgetInput{CategoryID: groceries, Month: 3, Year: 2101, LimitAmount: decimal.NewFromInt(100)}},
		{"zero limit", BudgetInput{CategoryID: groceries, Month: 3, Year: 2025}},
		{"bad currency", BudgetInput{CategoryID: groceries, Month: 3, Year: 2025, LimitAmount: decimal.NewFromInt(100), Currency: "ruble"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBudget(ctx, userID, tt.input)
			assert.True(t, common.IsValidation(err), "got %v", err)
		})
	}

	_, err := svc.CreateBudget(ctx, userID, BudgetInput{
		CategoryID:  "no-such-category",
		Month:       3,
		Year:        2025,
		LimitAmount: decimal.NewFromInt(100),
	})
	assert.True(t, common.IsNotFound(err))
}

func TestListBudgets_Progress(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()
	groceries := mustCreateCategory(t, svc, userID, "Groceries", model.TransactionTypeExpense)

	_, err := svc.CreateBudget(ctx, userID, BudgetInput{
		CategoryID:  groceries,
		Month:       3,
		Year:        2025,
		LimitAmount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	spend := func(amount int64, occurred time.Time, input TransactionInput) {
		input.Amount = decimal.NewFromInt(amount)
		input.OccurredAt = occurred
		mustCreateTransaction(t, svc, userID, input)
	}

	march := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	spend(100, march, TransactionInput{Type: model.TransactionTypeExpense, CategoryID: groceries})
	spend(50, march.AddDate(0, 0, 1), TransactionInput{Type: model.TransactionTypeExpense, CategoryID: groceries})
	// Outside the period: April 1st belongs to the next month.
	spend(500, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), TransactionInput{Type: model.TransactionTypeExpense, CategoryID: groceries})
	// Different category, must not count.
	other := mustCreateCategory(t, svc, userID, "Transport", model.TransactionTypeExpense)
	spend(999, march, TransactionInput{Type: model.TransactionTypeExpense, CategoryID: other})

	budgets, err := svc.ListBudgets(ctx, userID, 3, 2025)
	require.NoError(t, err)
	require.Len(t, budgets, 1)

	assert.Equal(t, "150", budgets[0].SpentAmount.String())
	assert.InDelta(t, 75.0, budgets[0].ProgressPercent, 1e-9)
}

func TestListBudgets_OverspendClampsProgress(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()
	groceries := mustCreateCategory(t, svc, userID, "Groceries", model.TransactionTypeExpense)

	_, err := svc.CreateBudget(ctx, userID, BudgetInput{
		CategoryID:  groceries,
		Month:       3,
		Year:        2025,
		LimitAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	mustCreateTransaction(t, svc, userID, TransactionInput{
		Type:       model.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(150),
		OccurredAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CategoryID: groceries,
	})

	budgets, err := svc.ListBudgets(ctx, userID, 3, 2025)
	require.NoError(t, err)
	require.Len(t, budgets, 1)

	assert.Equal(t, "150", budgets[0].SpentAmount.String(), "raw overspend stays visible")
	assert.InDelta(t, 100.0, budgets[0].ProgressPercent, 1e-9, "percentage is clamped")
}

func TestListBudgets_CreationOrder(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	names := []string{"Groceries", "Transport", "Entertainment"}
	for _, name := range names {
		catID := mustCreateCategory(t, svc, userID, name, model.TransactionTypeExpense)
		_, err := svc.CreateBudget(ctx, userID, BudgetInput{
			CategoryID:  catID,
			Month:       3,
			Year:        2025,
			LimitAmount: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
	}

	budgets, err := svc.ListBudgets(ctx, userID, 3, 2025)
	require.NoError(t, err)
	require.Len(t, budgets, 3)
	for i, name := range names {
		assert.Equal(t, name, budgets[i].Category.Name)
	}
}

func TestUpdateBudget(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()
	groceries := mustCreateCategory(t, svc, userID, "Groceries", model.TransactionTypeExpense)

	created, err := svc.CreateBudget(ctx, userID, BudgetInput{
		CategoryID:  groceries,
		Month:       3,
		Year:        2025,
		LimitAmount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	mustCreateTransaction(t, svc, userID, TransactionInput{
		Type:       model.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(150),
		OccurredAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CategoryID: groceries,
	})

	updated, err := svc.UpdateBudget(ctx, userID, created.ID, decimal.NewFromInt(300), "")
	require.NoError(t, err)
	assert.Equal(t, "300", updated.LimitAmount.String())
	assert.Equal(t, model.DefaultCurrency, updated.Currency, "empty currency keeps the stored one")
	assert.InDelta(t, 50.0, updated.ProgressPercent, 1e-9)

	_, err = svc.UpdateBudget(ctx, userID, created.ID, decimal.Zero, "")
	assert.True(t, common.IsValidation(err))

	_, err = svc.UpdateBudget(ctx, userID, "no-such-id", decimal.NewFromInt(100), "")
	assert.True(t, common.IsNotFound(err))
}

func TestDeleteBudget(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()
	groceries := mustCreateCategory(t, svc, userID, "Groceries", model.TransactionTypeExpense)

	created, err := svc.CreateBudget(ctx, userID, BudgetInput{
		CategoryID:  groceries,
		Month:       3,
		Year:        2025,
		LimitAmount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBudget(ctx, userID, created.ID))
	assert.True(t, common.IsNotFound(svc.DeleteBudget(ctx, userID, created.ID)))

	budgets, err := svc.ListBudgets(ctx, userID, 3, 2025)
	require.NoError(t, err)
	assert.Empty(t, budgets)
}
