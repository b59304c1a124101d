package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
)

const categoryColumns = `id, user_id, name, type, icon, color, created_at, updated_at`

// CreateCategory inserts a new category. A duplicate (user, type, name) is
// rejected by the unique index and reported as a duplicate resource.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}

	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		cat.ID,
		cat.UserID,
		cat.Name,
		string(cat.Type),
		nullString(cat.Icon),
		nullString(cat.Color),
		cat.CreatedAt.UTC(),
		cat.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return common.Duplicatef("category %q already exists for type %s", cat.Name, cat.Type)
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategory returns one category scoped to its owner.
func (s *SQLiteStorage) GetCategory(ctx context.Context, userID, id string) (*model.Category, error) {
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
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = ? AND user_id = ?`

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, common.NotFoundf("category %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// ListCategories returns the user's categories ordered by name, optionally
// restricted to one type.
func (s *SQLiteStorage) ListCategories(ctx context.Context, userID string, txType model.TransactionType) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = ?`
	args := []any{userID}
	if txType != "" {
		query += ` AND type = ?`
		args = append(args, string(txType))
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "user", userID, "count", len(categories))
	return categories, nil
}

// UpdateCategory replaces a category's fields, scoped to its owner.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}

	query := `
		UPDATE categories
		SET name = ?, type = ?, icon = ?, color = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query,
		cat.Name,
		string(cat.Type),
		nullString(cat.Icon),
		nullString(cat.Color),
		cat.UpdatedAt.UTC(),
		cat.ID,
		cat.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return common.Duplicatef("category %q already exists for type %s", cat.Name, cat.Type)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRowAffected(result, "category", cat.ID)
}

// DeleteCategory removes a category scoped to its owner.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, userID, id string) error {
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
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRowAffected(result, "category", id)
}

func scanCategory(row scannable) (*model.Category, error) {
	var (
		cat    model.Category
		ctType string
		icon   sql.NullString
		color  sql.NullString
	)
	err := row.Scan(
		&cat.ID,
		&cat.UserID,
		&cat.Name,
		&ctType,
		&icon,
		&color,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cat.Type = model.TransactionType(ctType)
	cat.Icon = icon.String
	cat.Color = color.String
	return &cat, nil
}
