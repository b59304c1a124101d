package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
)

// CreateUser inserts a user and bootstraps their default preference row in
// one database transaction.
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, created_at) VALUES (?, ?, ?)`,
		user.ID, user.Email, user.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return common.Duplicatef("user %s already exists", user.Email)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	prefs := model.DefaultPreferences(user.ID)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, locale, theme, default_currency) VALUES (?, ?, ?, ?)`,
		prefs.UserID, prefs.Locale, string(prefs.Theme), prefs.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("failed to insert preferences: %w", err)
	}

	return tx.Commit()
}

// GetUserByEmail returns the user with the given email.
func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}

	var user model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM users WHERE email = ?`, email).
		Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, common.NotFoundf("user %s", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// ListUsers returns all users, oldest first.
func (s *SQLiteStorage) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// GetPreferences returns the user's preference row.
func (s *SQLiteStorage) GetPreferences(ctx context.Context, userID string) (*model.UserPreference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var (
		prefs model.UserPreference
		theme string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, locale, theme, default_currency FROM user_preferences WHERE user_id = ?`,
		userID).
		Scan(&prefs.UserID, &prefs.Locale, &theme, &prefs.DefaultCurrency)
	if err == sql.ErrNoRows {
		return nil, common.NotFoundf("preferences for user %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}

	prefs.Theme = model.Theme(theme)
	return &prefs, nil
}

// UpdatePreferences replaces the user's preference row in place.
func (s *SQLiteStorage) UpdatePreferences(ctx context.Context, prefs *model.UserPreference) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if prefs == nil {
		return fmt.Errorf("%w: preferences", ErrNilParameter)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE user_preferences SET locale = ?, theme = ?, default_currency = ? WHERE user_id = ?`,
		prefs.Locale, string(prefs.Theme), prefs.DefaultCurrency, prefs.UserID)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return requireRowAffected(result, "preferences for user", prefs.UserID)
}
