package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
	"github.com/akfinance/ledger/internal/service"
)

const transactionColumns = `id, user_id, type, amount, currency, occurred_at, category_id, note, created_at, updated_at`

// CreateTransaction inserts a new transaction row.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID,
		txn.UserID,
		string(txn.Type),
		txn.Amount.String(),
		txn.Currency,
		txn.OccurredAt.UTC(),
		nullString(txn.CategoryID),
		nullString(txn.Note),
		txn.CreatedAt.UTC(),
		txn.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction returns one transaction scoped to its owner. A missing row
// and a row owned by someone else are both reported as not found.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, userID, id string) (*model.Transaction, error) {
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
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = ? AND user_id = ?`

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, common.NotFoundf("transaction %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// UpdateTransaction replaces the mutable fields of a transaction row.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}

	query := `
		UPDATE transactions
		SET type = ?, amount = ?, currency = ?, occurred_at = ?, category_id = ?, note = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query,
		string(txn.Type),
		txn.Amount.String(),
		txn.Currency,
		txn.OccurredAt.UTC(),
		nullString(txn.CategoryID),
		nullString(txn.Note),
		txn.UpdatedAt.UTC(),
		txn.ID,
		txn.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireRowAffected(result, "transaction", txn.ID)
}

// DeleteTransaction removes a transaction row scoped to its owner.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, userID, id string) error {
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
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireRowAffected(result, "transaction", id)
}

// SearchTransactions lists a user's transactions matching the filter,
// ordered by occurred_at descending, and returns the requested page plus the
// total match count. The no-filter and type-only shapes skip the query
// builder but return exactly what the general conjunction would.
func (s *SQLiteStorage) SearchTransactions(ctx context.Context, userID string, filter service.TransactionFilter, page service.Page) ([]model.Transaction, int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, 0, err
	}
	page = page.Normalize()

	switch {
	case filter.IsEmpty():
		return s.searchPage(ctx, userID, `WHERE user_id = ?`, []any{userID}, page)
	case filter.TypeOnly():
		return s.searchPage(ctx, userID, `WHERE user_id = ? AND type = ?`, []any{userID, string(filter.Type)}, page)
	}

	where, args := buildTransactionWhere(userID, filter)
	if !needsRowPredicates(filter) {
		return s.searchPage(ctx, userID, where, args, page)
	}
	return s.searchFiltered(ctx, userID, where, args, filter, page)
}

// searchPage counts and pages entirely in SQL. Only filters whose every
// predicate is in the WHERE clause may take this path.
func (s *SQLiteStorage) searchPage(ctx context.Context, userID, where string, args []any, page service.Page) ([]model.Transaction, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM transactions ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions ` + where + `
		ORDER BY occurred_at DESC, created_at DESC, id
		LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	txns, err := s.queryTransactions(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}

	slog.Debug("searched transactions", "user", userID, "total", total, "page", len(txns))
	return txns, total, nil
}

// searchFiltered narrows candidates in SQL, then evaluates the amount and
// note predicates over the scanned rows and pages the survivors. The rows
// arrive already ordered, so filtering preserves result order.
func (s *SQLiteStorage) searchFiltered(ctx context.Context, userID, where string, args []any, filter service.TransactionFilter, page service.Page) ([]model.Transaction, int, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions ` + where + `
		ORDER BY occurred_at DESC, created_at DESC, id`

	candidates, err := s.queryTransactions(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}

	var matched []model.Transaction
	for _, txn := range candidates {
		if matchesRowPredicates(filter, &txn) {
			matched = append(matched, txn)
		}
	}

	total := len(matched)
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	txns := matched[start:end]

	slog.Debug("searched transactions", "user", userID, "total", total, "page", len(txns))
	return txns, total, nil
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, query string, args []any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

// buildTransactionWhere composes the WHERE clause for the predicates SQLite
// evaluates faithfully: owner, date bounds, type, and category. The upper
// date bound is inclusive here, unlike the half-open period aggregations.
func buildTransactionWhere(userID string, filter service.TransactionFilter) (string, []any) {
	where := `WHERE user_id = ?`
	args := []any{userID}

	if filter.From != nil {
		where += ` AND occurred_at >= ?`
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		where += ` AND occurred_at <= ?`
		args = append(args, filter.To.UTC())
	}
	if filter.Type != "" {
		where += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}

	return where, args
}

// needsRowPredicates reports whether any predicate must run over scanned
// rows instead of inside the query. Amount bounds need exact decimal
// comparison, which CAST AS NUMERIC routes through floating point, and the
// note match needs full Unicode case folding with literal substring
// semantics, which LOWER (ASCII only) and LIKE (wildcard %, _) both break.
func needsRowPredicates(filter service.TransactionFilter) bool {
	return filter.MinAmount != nil || filter.MaxAmount != nil || filter.NormalizedQuery() != ""
}

// matchesRowPredicates evaluates the Go-side predicates against one scanned
// row, mirroring TransactionFilter.Matches for these fields.
func matchesRowPredicates(filter service.TransactionFilter, txn *model.Transaction) bool {
	if filter.MinAmount != nil && txn.Amount.LessThan(*filter.MinAmount) {
		return false
	}
	if filter.MaxAmount != nil && txn.Amount.GreaterThan(*filter.MaxAmount) {
		return false
	}
	if q := filter.NormalizedQuery(); q != "" {
		if !strings.Contains(strings.ToLower(txn.Note), q) {
			return false
		}
	}
	return true
}

// SumAmount totals a user's transactions of one type inside a half-open
// period, optionally restricted to one category. Amounts are summed as
// exact decimals in Go rather than trusting SQLite's float arithmetic; an
// empty result is exact zero, never an absent value.
func (s *SQLiteStorage) SumAmount(ctx context.Context, userID string, txType model.TransactionType, period service.Period, categoryID string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return decimal.Zero, err
	}
	if err := validateTxnType(txType); err != nil {
		return decimal.Zero, err
	}
	if !period.From.Before(period.To) {
		return decimal.Zero, ErrInvalidPeriod
	}

	query := `
		SELECT amount FROM transactions
		WHERE user_id = ? AND type = ? AND occurred_at >= ? AND occurred_at < ?`
	args := []any{userID, string(txType), period.From.UTC(), period.To.UTC()}
	if categoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query amounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("error iterating amounts: %w", err)
	}

	return total, nil
}

// SumByCategory totals a user's transactions of one type per category over
// a half-open period. Only categorized transactions contribute; rows come
// back ordered by amount descending, category id ascending on ties.
func (s *SQLiteStorage) SumByCategory(ctx context.Context, userID string, txType model.TransactionType, period service.Period) ([]service.CategorySum, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateTxnType(txType); err != nil {
		return nil, err
	}
	if !period.From.Before(period.To) {
		return nil, ErrInvalidPeriod
	}

	query := `
		SELECT t.category_id, c.name, t.amount
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.type = ? AND t.occurred_at >= ? AND t.occurred_at < ?
			AND t.category_id IS NOT NULL
		ORDER BY t.category_id`

	rows, err := s.db.QueryContext(ctx, query,
		userID, string(txType), period.From.UTC(), period.To.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query category sums: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// Group in Go so the totals stay exact decimals.
	var sums []service.CategorySum
	index := make(map[string]int)
	for rows.Next() {
		var (
			categoryID string
			name       string
			amount     decimal.Decimal
		)
		if err := rows.Scan(&categoryID, &name, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category sum: %w", err)
		}

		if i, ok := index[categoryID]; ok {
			sums[i].Amount = sums[i].Amount.Add(amount)
			continue
		}
		index[categoryID] = len(sums)
		sums = append(sums, service.CategorySum{
			CategoryID:   categoryID,
			CategoryName: name,
			Amount:       amount,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category sums: %w", err)
	}

	sortCategorySums(sums)
	return sums, nil
}

// sortCategorySums orders aggregation rows by amount descending, breaking
// ties deterministically on category id.
func sortCategorySums(sums []service.CategorySum) {
	sort.SliceStable(sums, func(i, j int) bool {
		if !sums[i].Amount.Equal(sums[j].Amount) {
			return sums[i].Amount.GreaterThan(sums[j].Amount)
		}
		return sums[i].CategoryID < sums[j].CategoryID
	})
}

// scannable lets scanTransaction work with both sql.Row and sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanTransaction(row scannable) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		txType     string
		categoryID sql.NullString
		note       sql.NullString
	)
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txType,
		&txn.Amount,
		&txn.Currency,
		&txn.OccurredAt,
		&categoryID,
		&note,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Type = model.TransactionType(txType)
	txn.CategoryID = categoryID.String
	txn.Note = note.String
	return &txn, nil
}

// nullString maps "" to NULL for optional text columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// requireRowAffected converts a zero-row write into a not-found error so
// foreign-owned rows are indistinguishable from missing ones.
func requireRowAffected(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return common.NotFoundf("%s %s", kind, id)
	}
	return nil
}
