package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/akfinance/ledger/internal/model"
)

func timePtr(t time.Time) *time.Time            { return &t }
func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func sampleTransaction() model.Transaction {
	return model.Transaction{
		ID:         "txn-1",
		UserID:     "user-1",
		Type:       model.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(100),
		Currency:   "RUB",
		OccurredAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		CategoryID: "cat-1",
		Note:       "Morning Coffee at the corner place",
	}
}

func TestTransactionFilter_Matches(t *testing.T) {
	txn := sampleTransaction()

	tests := []struct {
		name   string
		filter TransactionFilter
		want   bool
	}{
		{
			name:   "empty filter matches everything",
			filter: TransactionFilter{},
			want:   true,
		},
		{
			name:   "from bound is inclusive",
			filter: TransactionFilter{From: timePtr(txn.OccurredAt)},
			want:   true,
		},
		{
			name:   "from bound excludes earlier transactions",
			filter: TransactionFilter{From: timePtr(txn.OccurredAt.Add(time.Second))},
			want:   false,
		},
		{
			name:   "to bound is inclusive",
			filter: TransactionFilter{To: timePtr(txn.OccurredAt)},
			want:   true,
		},
		{
			name:   "to bound excludes later transactions",
			filter: TransactionFilter{To: timePtr(txn.OccurredAt.Add(-time.Second))},
			want:   false,
		},
		{
			name:   "matching type",
			filter: TransactionFilter{Type: model.TransactionTypeExpense},
			want:   true,
		},
		{
			name:   "mismatched type",
			filter: TransactionFilter{Type: model.TransactionTypeIncome},
			want:   false,
		},
		{
			name:   "matching category",
			filter: TransactionFilter{CategoryID: "cat-1"},
			want:   true,
		},
		{
			name:   "mismatched category",
			filter: TransactionFilter{CategoryID: "cat-2"},
			want:   false,
		},
		{
			name:   "min amount is inclusive",
			filter: TransactionFilter{MinAmount: decPtr(decimal.NewFromInt(100))},
			want:   true,
		},
		{
			name:   "min amount excludes smaller",
			filter: TransactionFilter{MinAmount: decPtr(decimal.RequireFromString("100.01"))},
			want:   false,
		},
		{
			name:   "max amount is inclusive",
			filter: TransactionFilter{MaxAmount: decPtr(decimal.NewFromInt(100))},
			want:   true,
		},
		{
			name:   "max amount excludes larger",
			filter: TransactionFilter{MaxAmount: decPtr(decimal.RequireFromString("99.99"))},
			want:   false,
		},
		{
			name:   "query is a case-insensitive substring match",
			filter: TransactionFilter{Query: "COFFEE"},
			want:   true,
		},
		{
			name:   "query that is not contained",
			filter: TransactionFilter{Query: "groceries"},
			want:   false,
		},
		{
			name:   "whitespace-only query is no filter",
			filter: TransactionFilter{Query: "   "},
			want:   true,
		},
		{
			name: "all predicates combine as a conjunction",
			filter: TransactionFilter{
				From:       timePtr(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
				To:         timePtr(time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)),
				Type:       model.TransactionTypeExpense,
				CategoryID: "cat-1",
				MinAmount:  decPtr(decimal.NewFromInt(50)),
				MaxAmount:  decPtr(decimal.NewFromInt(150)),
				Query:      "coffee",
			},
			want: true,
		},
		{
			name: "one failing predicate fails the conjunction",
			filter: TransactionFilter{
				MinAmount: decPtr(decimal.NewFromInt(50)),
				MaxAmount: decPtr(decimal.NewFromInt(150)),
				Query:     "coffee",
				Type:      model.TransactionTypeIncome,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(&txn))
		})
	}
}

func TestTransactionFilter_FastPathShapes(t *testing.T) {
	assert.True(t, TransactionFilter{}.IsEmpty())
	assert.True(t, TransactionFilter{Query: " \t"}.IsEmpty(), "blank query keeps the filter empty")
	assert.False(t, TransactionFilter{Query: "x"}.IsEmpty())

	assert.True(t, TransactionFilter{Type: model.TransactionTypeExpense}.TypeOnly())
	assert.True(t, TransactionFilter{Type: model.TransactionTypeExpense, Query: "  "}.TypeOnly())
	assert.False(t, TransactionFilter{}.TypeOnly())
	assert.False(t, TransactionFilter{Type: model.TransactionTypeExpense, CategoryID: "cat-1"}.TypeOnly())
}

func TestPage_Normalize(t *testing.T) {
	normalized := Page{}.Normalize()
	assert.Equal(t, DefaultPageSize, normalized.Limit)
	assert.Equal(t, 0, normalized.Offset)

	normalized = Page{Limit: 5, Offset: -3}.Normalize()
	assert.Equal(t, 5, normalized.Limit)
	assert.Equal(t, 0, normalized.Offset)
}

func TestPeriod_Contains(t *testing.T) {
	period := Period{
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, period.Contains(period.From), "lower bound is inclusive")
	assert.True(t, period.Contains(period.To.Add(-time.Nanosecond)))
	assert.False(t, period.Contains(period.To), "upper bound is exclusive")
	assert.False(t, period.Contains(period.From.Add(-time.Nanosecond)))
}
