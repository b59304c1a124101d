package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
	"github.com/akfinance/ledger/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUser(t *testing.T, store service.Storage, id, email string) string {
	t.Helper()
	require.NoError(t, store.CreateUser(context.Background(), &model.User{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}))
	return id
}

func seedCategory(t *testing.T, store service.Storage, id, userID, name string, txType model.TransactionType) string {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, store.CreateCategory(context.Background(), &model.Category{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Type:      txType,
		CreatedAt: now,
		UpdatedAt: now,
	}))
	return id
}

func seedTransaction(t *testing.T, store service.Storage, txn model.Transaction) model.Transaction {
	t.Helper()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	if txn.UpdatedAt.IsZero() {
		txn.UpdatedAt = txn.CreatedAt
	}
	if txn.Currency == "" {
		txn.Currency = "RUB"
	}
	require.NoError(t, store.CreateTransaction(context.Background(), &txn))
	return txn
}

func TestNewSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "ledger.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	// Already migrated by the helper; a second run is a no-op.
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestTransactionCRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "user-1", "one@example.com")
	otherID := seedUser(t, store, "user-2", "two@example.com")
	catID := seedCategory(t, store, "cat-1", userID, "Groceries", model.TransactionTypeExpense)

	occurred := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	created := seedTransaction(t, store, model.Transaction{
		ID:         "txn-1",
		UserID:     userID,
		Type:       model.TransactionTypeExpense,
		Amount:     decimal.RequireFromString("123.45"),
		OccurredAt: occurred,
		CategoryID: catID,
		Note:       "weekly shop",
	})

	got, err := store.GetTransaction(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "123.45", got.Amount.String())
	assert.True(t, got.OccurredAt.Equal(occurred))
	assert.Equal(t, catID, got.CategoryID)
	assert.Equal(t, "weekly shop", got.Note)

	// Foreign owner sees nothing.
	_, err = store.GetTransaction(ctx, otherID, created.ID)
	assert.True(t, common.IsNotFound(err))

	got.Amount = decimal.RequireFromString("99.99")
	got.Note = ""
	got.CategoryID = ""
	require.NoError(t, store.UpdateTransaction(ctx, got))

	updated, err := store.GetTransaction(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "99.99", updated.Amount.String())
	assert.Empty(t, updated.Note)
	assert.Empty(t, updated.CategoryID)

	// Updates and deletes through the wrong owner affect nothing.
	updated.UserID = otherID
	assert.True(t, common.IsNotFound(store.UpdateTransaction(ctx, updated)))
	assert.True(t, common.IsNotFound(store.DeleteTransaction(ctx, otherID, created.ID)))

	require.NoError(t, store.DeleteTransaction(ctx, userID, created.ID))
	_, err = store.GetTransaction(ctx, userID, created.ID)
	assert.True(t, common.IsNotFound(err))
}

// seedSearchCorpus loads the same deterministic dataset into a store. It is
// used to cross-check the SQL search paths against the in-memory reference.
func seedSearchCorpus(t *testing.T, store service.Storage) {
	t.Helper()
	userID := seedUser(t, store, "user-1", "one@example.com")
	seedUser(t, store, "user-2", "two@example.com")
	seedCategory(t, store, "cat-food", userID, "Food", model.TransactionTypeExpense)
	seedCategory(t, store, "cat-fun", userID, "Fun", model.TransactionTypeExpense)
	seedCategory(t, store, "cat-pay", userID, "Pay", model.TransactionTypeIncome)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []model.Transaction{
		{ID: "t1", Type: model.TransactionTypeExpense, Amount: decimal.NewFromInt(120), CategoryID: "cat-food", Note: "Coffee with friends"},
		{ID: "t2", Type: model.TransactionTypeExpense, Amount: decimal.NewFromInt(30), CategoryID: "cat-food", Note: "coffee to go"},
		{ID: "t3", Type: model.TransactionTypeExpense, Amount: decimal.RequireFromString("199.99"), CategoryID: "cat-fun", Note: "cinema"},
		{ID: "t4", Type: model.TransactionTypeIncome, Amount: decimal.NewFromInt(1000), CategoryID: "cat-pay", Note: "salary"},
		{ID: "t5", Type: model.TransactionTypeExpense, Amount: decimal.NewFromInt(75), CategoryID: "cat-fun", Note: "Coffee beans"},
		{ID: "t6", Type: model.TransactionTypeExpense, Amount: decimal.NewFromInt(50)},
		{ID: "t7", Type: model.TransactionTypeExpense, Amount: decimal.NewFromInt(200), CategoryID: "cat-food", Note: "Кофе у дома"},
		{ID: "t8", Type: model.TransactionTypeExpense, Amount: decimal.NewFromInt(40), Note: "c_ffee machine part"},
		{ID: "t9", Type: model.TransactionTypeIncome, Amount: decimal.RequireFromString("100.000000000000000001"), CategoryID: "cat-pay", Note: "interest"},
	}
	for i, row := range rows {
		row.UserID = userID
		row.OccurredAt = base.AddDate(0, 0, i)
		row.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		row.UpdatedAt = row.CreatedAt
		seedTransaction(t, store, row)
	}

	// Another user's rows must never leak into results.
	seedTransaction(t, store, model.Transaction{
		ID: "t-foreign", UserID: "user-2", Type: model.TransactionTypeExpense,
		Amount: decimal.NewFromInt(500), OccurredAt: base, Note: "coffee elsewhere",
	})
}

func TestSearchTransactions_MatchesReferenceImplementation(t *testing.T) {
	sqlStore := newTestStorage(t)
	memStore := NewMemoryStorage()
	seedSearchCorpus(t, sqlStore)
	seedSearchCorpus(t, memStore)
	ctx := context.Background()

	day := func(d int) *time.Time {
		ts := time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
		return &ts
	}
	amount := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	filters := []struct {
		name   string
		filter service.TransactionFilter
	}{
		{"no filter", service.TransactionFilter{}},
		{"blank query only", service.TransactionFilter{Query: "  "}},
		{"type only expense", service.TransactionFilter{Type: model.TransactionTypeExpense}},
		{"type only income", service.TransactionFilter{Type: model.TransactionTypeIncome}},
		{"date range", service.TransactionFilter{From: day(2), To: day(5)}},
		{"open-ended from", service.TransactionFilter{From: day(4)}},
		{"amount range", service.TransactionFilter{MinAmount: amount("50"), MaxAmount: amount("150")}},
		{"fractional amount bound", service.TransactionFilter{MaxAmount: amount("199.99")}},
		{"query", service.TransactionFilter{Query: "COFFEE"}},
		{"query folds cyrillic", service.TransactionFilter{Query: "КОФЕ"}},
		{"query underscore is literal", service.TransactionFilter{Query: "c_ffee"}},
		{"amount bound beyond float precision", service.TransactionFilter{MinAmount: amount("100.000000000000000002")}},
		{"category", service.TransactionFilter{CategoryID: "cat-fun"}},
		{"full conjunction", service.TransactionFilter{
			From: day(1), To: day(6), Type: model.TransactionTypeExpense,
			MinAmount: amount("50"), MaxAmount: amount("150"), Query: "coffee",
		}},
	}

	for _, tt := range filters {
		t.Run(tt.name, func(t *testing.T) {
			sqlRows, sqlTotal, err := sqlStore.SearchTransactions(ctx, "user-1", tt.filter, service.Page{Limit: 100})
			require.NoError(t, err)
			memRows, memTotal, err := memStore.SearchTransactions(ctx, "user-1", tt.filter, service.Page{Limit: 100})
			require.NoError(t, err)

			require.Equal(t, memTotal, sqlTotal)
			require.Len(t, sqlRows, len(memRows))
			for i := range memRows {
				assert.Equal(t, memRows[i].ID, sqlRows[i].ID, "row %d diverges", i)
			}
		})
	}
}

func TestSearchTransactions_Paging(t *testing.T) {
	store := newTestStorage(t)
	seedSearchCorpus(t, store)
	ctx := context.Background()

	rows, total, err := store.SearchTransactions(ctx, "user-1", service.TransactionFilter{}, service.Page{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 9, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "t9", rows[0].ID, "newest first")
	assert.Equal(t, "t8", rows[1].ID)

	rows, total, err = store.SearchTransactions(ctx, "user-1", service.TransactionFilter{}, service.Page{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, 9, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "t5", rows[0].ID)
	assert.Equal(t, "t4", rows[1].ID)

	rows, total, err = store.SearchTransactions(ctx, "user-1", service.TransactionFilter{}, service.Page{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 9, total)
	assert.Empty(t, rows)

	// Paging after row-level predicates: three coffee notes, newest first.
	rows, total, err = store.SearchTransactions(ctx, "user-1", service.TransactionFilter{Query: "coffee"}, service.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "t1", rows[0].ID)
}

func TestSearchTransactions_NoteMatchSemantics(t *testing.T) {
	store := newTestStorage(t)
	seedSearchCorpus(t, store)
	ctx := context.Background()

	// Case folding covers the full alphabet, not just ASCII.
	rows, total, err := store.SearchTransactions(ctx, "user-1", service.TransactionFilter{Query: "кофе"}, service.Page{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "t7", rows[0].ID)

	// Pattern metacharacters are ordinary characters, so "c_ffee" must not
	// pick up the coffee rows.
	rows, total, err = store.SearchTransactions(ctx, "user-1", service.TransactionFilter{Query: "c_ffee"}, service.Page{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "t8", rows[0].ID)

	rows, total, err = store.SearchTransactions(ctx, "user-1", service.TransactionFilter{Query: "%"}, service.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)
}

func TestSearchTransactions_AmountBoundsExact(t *testing.T) {
	store := newTestStorage(t)
	seedSearchCorpus(t, store)
	ctx := context.Background()

	// One quintillionth above t9's amount: a float64 comparison would call
	// them equal, an exact decimal comparison excludes t9.
	min := decimal.RequireFromString("100.000000000000000002")
	rows, total, err := store.SearchTransactions(ctx, "user-1", service.TransactionFilter{MinAmount: &min}, service.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	for _, txn := range rows {
		assert.NotEqual(t, "t9", txn.ID)
	}
}

func TestSumAmount(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "user-1", "one@example.com")
	catID := seedCategory(t, store, "cat-1", userID, "Groceries", model.TransactionTypeExpense)
	otherCat := seedCategory(t, store, "cat-2", userID, "Transport", model.TransactionTypeExpense)

	period := service.Period{
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	// Empty ledger sums to exact zero, not an absent value.
	total, err := store.SumAmount(ctx, userID, model.TransactionTypeExpense, period, "")
	require.NoError(t, err)
	assert.Equal(t, "0", total.String())

	// Amounts that are lossy in binary floating point stay exact.
	seedTransaction(t, store, model.Transaction{
		ID: "t1", UserID: userID, Type: model.TransactionTypeExpense,
		Amount: decimal.RequireFromString("0.1"), OccurredAt: period.From, CategoryID: catID,
	})
	seedTransaction(t, store, model.Transaction{
		ID: "t2", UserID: userID, Type: model.TransactionTypeExpense,
		Amount: decimal.RequireFromString("0.2"), OccurredAt: period.From.AddDate(0, 0, 10), CategoryID: otherCat,
	})
	// Sits exactly on the exclusive upper bound, outside the period.
	seedTransaction(t, store, model.Transaction{
		ID: "t3", UserID: userID, Type: model.TransactionTypeExpense,
		Amount: decimal.NewFromInt(1000), OccurredAt: period.To, CategoryID: catID,
	})
	// Wrong type.
	seedTransaction(t, store, model.Transaction{
		ID: "t4", UserID: userID, Type: model.TransactionTypeIncome,
		Amount: decimal.NewFromInt(500), OccurredAt: period.From,
	})

	total, err = store.SumAmount(ctx, userID, model.TransactionTypeExpense, period, "")
	require.NoError(t, err)
	assert.Equal(t, "0.3", total.String())

	total, err = store.SumAmount(ctx, userID, model.TransactionTypeExpense, period, catID)
	require.NoError(t, err)
	assert.Equal(t, "0.1", total.String())

	_, err = store.SumAmount(ctx, userID, model.TransactionTypeExpense, service.Period{From: period.To, To: period.From}, "")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = store.SumAmount(ctx, userID, "TRANSFER", period, "")
	assert.ErrorIs(t, err, ErrInvalidTxnType)
}

func TestSumByCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "user-1", "one@example.com")
	seedCategory(t, store, "cat-a", userID, "Alpha", model.TransactionTypeExpense)
	seedCategory(t, store, "cat-b", userID, "Beta", model.TransactionTypeExpense)
	seedCategory(t, store, "cat-c", userID, "Gamma", model.TransactionTypeExpense)

	period := service.Period{
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	occurred := period.From.AddDate(0, 0, 5)

	seedTransaction(t, store, model.Transaction{
		ID: "t1", UserID: userID, Type: model.TransactionTypeExpense,
		Amount: decimal.NewFromInt(60), OccurredAt: occurred, CategoryID: "cat-c",
	})
	seedTransaction(t, store, model.Transaction{
		ID: "t2", UserID: userID, Type: model.TransactionTypeExpense,
		Amount: decimal.NewFromInt(240), OccurredAt: occurred, CategoryID: "cat-c",
	})
	seedTransaction(t, store, model.Transaction{
		ID: "t3", UserID: userID, Type: model.TransactionTypeExpense,
		Amount: decimal.NewFromInt(100), OccurredAt: occurred, CategoryID: "cat-b",
	})
	seedTransaction(t, store, model.Transaction{
		ID: "t4", UserID: userID, Type: model.TransactionTypeExpense,
		Amount: decimal.NewFromInt(100), OccurredAt: occurred, CategoryID: "cat-a",
	})
	// Uncategorized rows never contribute.
	seedTransaction(t, store, model.Transaction{
		ID: "t5", UserID: userID, Type: model.TransactionTypeExpense,
		Amount: decimal.NewFromInt(999), OccurredAt: occurred,
	})

	sums, err := store.SumByCategory(ctx, userID, model.TransactionTypeExpense, period)
	require.NoError(t, err)

	require.Len(t, sums, 3)
	assert.Equal(t, "cat-c", sums[0].CategoryID)
	assert.Equal(t, "Gamma", sums[0].CategoryName)
	assert.Equal(t, "300", sums[0].Amount.String())
	// Equal totals break the tie on category id.
	assert.Equal(t, "cat-a", sums[1].CategoryID)
	assert.Equal(t, "cat-b", sums[2].CategoryID)
}

func TestCategoryUniqueness(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "user-1", "one@example.com")
	seedCategory(t, store, "cat-1", userID, "Groceries", model.TransactionTypeExpense)

	now := time.Now().UTC()
	err := store.CreateCategory(ctx, &model.Category{
		ID: "cat-2", UserID: userID, Name: "Groceries", Type: model.TransactionTypeExpense,
		CreatedAt: now, UpdatedAt: now,
	})
	assert.True(t, common.IsDuplicate(err), "got %v", err)

	// Same name under the other type is a different key.
	err = store.CreateCategory(ctx, &model.Category{
		ID: "cat-3", UserID: userID, Name: "Groceries", Type: model.TransactionTypeIncome,
		CreatedAt: now, UpdatedAt: now,
	})
	assert.NoError(t, err)

	// Renaming onto a taken key is also a conflict.
	seedCategory(t, store, "cat-4", userID, "Transport", model.TransactionTypeExpense)
	cat, err := store.GetCategory(ctx, userID, "cat-4")
	require.NoError(t, err)
	cat.Name = "Groceries"
	assert.True(t, common.IsDuplicate(store.UpdateCategory(ctx, cat)))
}

func TestBudgetUniquenessAndOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "user-1", "one@example.com")
	seedCategory(t, store, "cat-1", userID, "Groceries", model.TransactionTypeExpense)
	seedCategory(t, store, "cat-2", userID, "Transport", model.TransactionTypeExpense)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	makeBudget := func(id, catID string, createdAt time.Time) *model.Budget {
		return &model.Budget{
			ID: id, UserID: userID, CategoryID: catID, Month: 3, Year: 2025,
			LimitAmount: decimal.NewFromInt(100), Currency: "RUB",
			CreatedAt: createdAt, UpdatedAt: createdAt,
		}
	}

	require.NoError(t, store.CreateBudget(ctx, makeBudget("b2", "cat-2", base.Add(time.Hour))))
	require.NoError(t, store.CreateBudget(ctx, makeBudget("b1", "cat-1", base)))

	err := store.CreateBudget(ctx, makeBudget("b3", "cat-1", base.Add(2*time.Hour)))
	assert.True(t, common.IsDuplicate(err), "second budget for the same category and period: %v", err)

	budgets, err := store.ListBudgets(ctx, userID, 3, 2025)
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, "b1", budgets[0].ID, "creation order, oldest first")
	assert.Equal(t, "b2", budgets[1].ID)

	budgets, err = store.ListBudgets(ctx, userID, 4, 2025)
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestUsersAndPreferences(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := seedUser(t, store, "user-1", "one@example.com")

	err := store.CreateUser(ctx, &model.User{ID: "user-x", Email: "one@example.com", CreatedAt: time.Now().UTC()})
	assert.True(t, common.IsDuplicate(err), "got %v", err)

	user, err := store.GetUserByEmail(ctx, "one@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.True(t, common.IsNotFound(err))

	// Creating a user bootstraps the default preference row.
	prefs, err := store.GetPreferences(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultLocale, prefs.Locale)
	assert.Equal(t, model.ThemeLight, prefs.Theme)
	assert.Equal(t, model.DefaultCurrency, prefs.DefaultCurrency)

	prefs.Theme = model.ThemeDark
	prefs.DefaultCurrency = "USD"
	require.NoError(t, store.UpdatePreferences(ctx, prefs))

	prefs, err = store.GetPreferences(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, prefs.Theme)
	assert.Equal(t, "USD", prefs.DefaultCurrency)

	_, err = store.GetPreferences(ctx, "ghost")
	assert.True(t, common.IsNotFound(err))
}
