package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
	"github.com/akfinance/ledger/internal/service"
)

// MemoryStorage is an in-memory reference implementation of the storage
// contract. It always evaluates searches through the general predicate
// conjunction, which makes it the behavioral yardstick for SQL-backed fast
// paths, and it is what most tests run against.
type MemoryStorage struct {
	mu           sync.RWMutex
	users        map[string]model.User
	preferences  map[string]model.UserPreference
	categories   map[string]model.Category
	transactions map[string]model.Transaction
	budgets      map[string]model.Budget
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:        make(map[string]model.User),
		preferences:  make(map[string]model.UserPreference),
		categories:   make(map[string]model.Category),
		transactions: make(map[string]model.Transaction),
		budgets:      make(map[string]model.Budget),
	}
}

// Migrate is a no-op; the in-memory store has no schema.
func (m *MemoryStorage) Migrate(_ context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStorage) Close() error { return nil }

// CreateTransaction stores a new transaction.
func (m *MemoryStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = *txn
	return nil
}

// GetTransaction returns one transaction scoped to its owner.
func (m *MemoryStorage) GetTransaction(ctx context.Context, userID, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	txn, ok := m.transactions[id]
	if !ok || txn.UserID != userID {
		return nil, common.NotFoundf("transaction %s", id)
	}
	return &txn, nil
}

// UpdateTransaction replaces a stored transaction, scoped to its owner.
func (m *MemoryStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.transactions[txn.ID]
	if !ok || existing.UserID != txn.UserID {
		return common.NotFoundf("transaction %s", txn.ID)
	}
	m.transactions[txn.ID] = *txn
	return nil
}

// DeleteTransaction removes a transaction scoped to its owner.
func (m *MemoryStorage) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok || txn.UserID != userID {
		return common.NotFoundf("transaction %s", id)
	}
	delete(m.transactions, id)
	return nil
}

// SearchTransactions evaluates the full predicate conjunction over the
// user's transactions, newest first, and returns the requested page plus
// the total match count.
func (m *MemoryStorage) SearchTransactions(ctx context.Context, userID string, filter service.TransactionFilter, page service.Page) ([]model.Transaction, int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, 0, err
	}
	page = page.Normalize()

	m.mu.RLock()
	var matched []model.Transaction
	for _, txn := range m.transactions {
		if txn.UserID != userID {
			continue
		}
		if filter.Matches(&txn) {
			matched = append(matched, txn)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// SumAmount totals the user's transactions of one type inside a half-open
// period, optionally restricted to one category. The empty result is exact
// zero.
func (m *MemoryStorage) SumAmount(ctx context.Context, userID string, txType model.TransactionType, period service.Period, categoryID string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateTxnType(txType); err != nil {
		return decimal.Zero, err
	}
	if !period.From.Before(period.To) {
		return decimal.Zero, ErrInvalidPeriod
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, txn := range m.transactions {
		if txn.UserID != userID || txn.Type != txType {
			continue
		}
		if !period.Contains(txn.OccurredAt) {
			continue
		}
		if categoryID != "" && txn.CategoryID != categoryID {
			continue
		}
		total = total.Add(txn.Amount)
	}
	return total, nil
}

// SumByCategory totals the user's categorized transactions of one type per
// category over a half-open period, ordered by amount descending with
// category id as the tie-break.
func (m *MemoryStorage) SumByCategory(ctx context.Context, userID string, txType model.TransactionType, period service.Period) ([]service.CategorySum, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTxnType(txType); err != nil {
		return nil, err
	}
	if !period.From.Before(period.To) {
		return nil, ErrInvalidPeriod
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	totals := make(map[string]decimal.Decimal)
	for _, txn := range m.transactions {
		if txn.UserID != userID || txn.Type != txType || txn.CategoryID == "" {
			continue
		}
		if !period.Contains(txn.OccurredAt) {
			continue
		}
		totals[txn.CategoryID] = totals[txn.CategoryID].Add(txn.Amount)
	}

	sums := make([]service.CategorySum, 0, len(totals))
	for categoryID, amount := range totals {
		name := ""
		if cat, ok := m.categories[categoryID]; ok {
			name = cat.Name
		}
		sums = append(sums, service.CategorySum{
			CategoryID:   categoryID,
			CategoryName: name,
			Amount:       amount,
		})
	}

	sortCategorySums(sums)
	return sums, nil
}

// CreateCategory stores a new category, enforcing (user, type, name)
// uniqueness.
func (m *MemoryStorage) CreateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.UserID == cat.UserID && existing.Type == cat.Type && existing.Name == cat.Name {
			return common.Duplicatef("category %q already exists for type %s", cat.Name, cat.Type)
		}
	}
	m.categories[cat.ID] = *cat
	return nil
}

// GetCategory returns one category scoped to its owner.
func (m *MemoryStorage) GetCategory(ctx context.Context, userID, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	cat, ok := m.categories[id]
	if !ok || cat.UserID != userID {
		return nil, common.NotFoundf("category %s", id)
	}
	return &cat, nil
}

// ListCategories returns the user's categories ordered by name.
func (m *MemoryStorage) ListCategories(ctx context.Context, userID string, txType model.TransactionType) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var categories []model.Category
	for _, cat := range m.categories {
		if cat.UserID != userID {
			continue
		}
		if txType != "" && cat.Type != txType {
			continue
		}
		categories = append(categories, cat)
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// UpdateCategory replaces a stored category, scoped to its owner.
func (m *MemoryStorage) UpdateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[cat.ID]
	if !ok || existing.UserID != cat.UserID {
		return common.NotFoundf("category %s", cat.ID)
	}
	for _, other := range m.categories {
		if other.ID != cat.ID && other.UserID == cat.UserID &&
			other.Type == cat.Type && other.Name == cat.Name {
			return common.Duplicatef("category %q already exists for type %s", cat.Name, cat.Type)
		}
	}
	m.categories[cat.ID] = *cat
	return nil
}

// DeleteCategory removes a category scoped to its owner.
func (m *MemoryStorage) DeleteCategory(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cat, ok := m.categories[id]
	if !ok || cat.UserID != userID {
		return common.NotFoundf("category %s", id)
	}
	delete(m.categories, id)
	return nil
}

// CreateBudget stores a new budget, enforcing (user, category, month, year)
// uniqueness under the store's lock.
func (m *MemoryStorage) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.budgets {
		if existing.UserID == budget.UserID && existing.CategoryID == budget.CategoryID &&
			existing.Month == budget.Month && existing.Year == budget.Year {
			return common.Duplicatef("budget already exists for this category and period")
		}
	}
	m.budgets[budget.ID] = *budget
	return nil
}

// GetBudget returns one budget scoped to its owner.
func (m *MemoryStorage) GetBudget(ctx context.Context, userID, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	budget, ok := m.budgets[id]
	if !ok || budget.UserID != userID {
		return nil, common.NotFoundf("budget %s", id)
	}
	return &budget, nil
}

// ListBudgets returns the user's budgets for one period in creation order.
func (m *MemoryStorage) ListBudgets(ctx context.Context, userID string, month, year int) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var budgets []model.Budget
	for _, budget := range m.budgets {
		if budget.UserID == userID && budget.Month == month && budget.Year == year {
			budgets = append(budgets, budget)
		}
	}

	sort.SliceStable(budgets, func(i, j int) bool {
		if !budgets[i].CreatedAt.Equal(budgets[j].CreatedAt) {
			return budgets[i].CreatedAt.Before(budgets[j].CreatedAt)
		}
		return budgets[i].ID < budgets[j].ID
	})
	return budgets, nil
}

// UpdateBudget replaces a stored budget, scoped to its owner.
func (m *MemoryStorage) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return common.NotFoundf("budget %s", budget.ID)
	}
	m.budgets[budget.ID] = *budget
	return nil
}

// DeleteBudget removes a budget scoped to its owner.
func (m *MemoryStorage) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	budget, ok := m.budgets[id]
	if !ok || budget.UserID != userID {
		return common.NotFoundf("budget %s", id)
	}
	delete(m.budgets, id)
	return nil
}

// CreateUser stores a user and their default preference row.
func (m *MemoryStorage) CreateUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return common.Duplicatef("user %s already exists", user.Email)
		}
	}
	m.users[user.ID] = *user
	m.preferences[user.ID] = model.DefaultPreferences(user.ID)
	return nil
}

// GetUserByEmail returns the user with the given email.
func (m *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, common.NotFoundf("user %s", email)
}

// ListUsers returns all users, oldest first.
func (m *MemoryStorage) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]model.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// GetPreferences returns the user's preference row.
func (m *MemoryStorage) GetPreferences(ctx context.Context, userID string) (*model.UserPreference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	prefs, ok := m.preferences[userID]
	if !ok {
		return nil, common.NotFoundf("preferences for user %s", userID)
	}
	return &prefs, nil
}

// UpdatePreferences replaces the user's preference row.
func (m *MemoryStorage) UpdatePreferences(ctx context.Context, prefs *model.UserPreference) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if prefs == nil {
		return fmt.Errorf("%w: preferences", ErrNilParameter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.preferences[prefs.UserID]; !ok {
		return common.NotFoundf("preferences for user %s", prefs.UserID)
	}
	m.preferences[prefs.UserID] = *prefs
	return nil
}
