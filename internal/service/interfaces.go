// Package service defines the contracts between the ledger engine and its
// storage layer.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/model"
)

// Period is a half-open UTC time interval [From, To) covering one calendar
// month. Aggregation queries include From and exclude To.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// CategorySum is one row of a per-category aggregation: the total amount of
// matching transactions in one category.
type CategorySum struct {
	CategoryID   string
	CategoryName string
	Amount       decimal.Decimal
}

// Page describes the slice of results a list operation should return.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPageSize is applied when a caller does not specify a limit.
const DefaultPageSize = 20

// Normalize clamps nonsensical paging values to usable ones.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// TransactionAggregator is the aggregation boundary the ledger engine
// requires from storage. Both operations are read-only and scoped to one
// owning user; they must never observe other users' rows.
type TransactionAggregator interface {
	// SumAmount returns the total amount of the user's transactions of the
	// given type with occurred_at inside period, optionally restricted to
	// one category. It returns exact zero, never an absent value, when
	// nothing matches.
	SumAmount(ctx context.Context, userID string, txType model.TransactionType, period Period, categoryID string) (decimal.Decimal, error)

	// SumByCategory returns one row per category that has at least one
	// matching transaction, ordered by amount descending with category id
	// ascending as the tie-break.
	SumByCategory(ctx context.Context, userID string, txType model.TransactionType, period Period) ([]CategorySum, error)
}

// Storage defines the persistence contract for the ledger.
type Storage interface {
	TransactionAggregator

	// Transaction operations.
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, userID, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	// SearchTransactions applies filter as a conjunction of its present
	// predicates, orders by occurred_at descending, and returns the page
	// plus the total match count.
	SearchTransactions(ctx context.Context, userID string, filter TransactionFilter, page Page) ([]model.Transaction, int, error)

	// Category operations.
	CreateCategory(ctx context.Context, cat *model.Category) error
	GetCategory(ctx context.Context, userID, id string) (*model.Category, error)
	ListCategories(ctx context.Context, userID string, txType model.TransactionType) ([]model.Category, error)
	UpdateCategory(ctx context.Context, cat *model.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error

	// Budget operations. ListBudgets returns budgets for one period in
	// creation order (oldest first).
	CreateBudget(ctx context.Context, budget *model.Budget) error
	GetBudget(ctx context.Context, userID, id string) (*model.Budget, error)
	ListBudgets(ctx context.Context, userID string, month, year int) ([]model.Budget, error)
	UpdateBudget(ctx context.Context, budget *model.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error

	// User and preference operations. CreateUser also bootstraps the
	// default preference row.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetPreferences(ctx context.Context, userID string) (*model.UserPreference, error)
	UpdatePreferences(ctx context.Context, prefs *model.UserPreference) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
