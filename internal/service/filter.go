package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/model"
)

// TransactionFilter is an open-ended combination of optional search
// predicates. A nil or zero field means "no restriction". Owner scoping is
// not part of the filter; it is always applied by the storage layer.
//
// Date bounds are asymmetric on purpose: From and To are both inclusive
// here, while period aggregations treat their upper bound as exclusive.
// Search follows the original product behavior and must not be unified
// with the period convention.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Type       model.TransactionType
	CategoryID string
	Query      string
}

// IsEmpty reports whether no predicate is active, the first fast path.
func (f TransactionFilter) IsEmpty() bool {
	return f.From == nil && f.To == nil && f.Type == "" && f.CategoryID == "" &&
		f.MinAmount == nil && f.MaxAmount == nil && !f.hasQuery()
}

// TypeOnly reports whether the type predicate is the only active one, the
// second fast path.
func (f TransactionFilter) TypeOnly() bool {
	return f.Type != "" && f.From == nil && f.To == nil && f.CategoryID == "" &&
		f.MinAmount == nil && f.MaxAmount == nil && !f.hasQuery()
}

// hasQuery reports whether the free-text predicate is active. A blank or
// whitespace-only query is no filter at all, not a match against the empty
// string.
func (f TransactionFilter) hasQuery() bool {
	return strings.TrimSpace(f.Query) != ""
}

// NormalizedQuery returns the trimmed, case-folded query text, or "" when
// the query predicate is inactive.
func (f TransactionFilter) NormalizedQuery() string {
	if !f.hasQuery() {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(f.Query))
}

// Matches evaluates the full predicate conjunction against one transaction.
// This is the reference semantics for the general path; SQL-backed
// implementations must produce identical results.
func (f TransactionFilter) Matches(txn *model.Transaction) bool {
	if f.From != nil && txn.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && txn.OccurredAt.After(*f.To) {
		return false
	}
	if f.Type != "" && txn.Type != f.Type {
		return false
	}
	if f.CategoryID != "" && txn.CategoryID != f.CategoryID {
		return false
	}
	if f.MinAmount != nil && txn.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && txn.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if q := f.NormalizedQuery(); q != "" {
		if !strings.Contains(strings.ToLower(txn.Note), q) {
			return false
		}
	}
	return true
}
