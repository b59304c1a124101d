// Package model defines the core domain types for the ledger.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TransactionTypeIncome represents money received.
	TransactionTypeIncome TransactionType = "INCOME"
	// TransactionTypeExpense represents money spent.
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single ledger entry owned by a user.
//
// OccurredAt is the economic date of the transaction and is distinct from
// CreatedAt, which records when the row was written.
type Transaction struct {
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ID         string
	UserID     string
	Type       TransactionType
	Currency   string
	CategoryID string // empty when the transaction is uncategorized
	Note       string
	Amount     decimal.Decimal
}
