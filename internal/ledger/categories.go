package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akfinance/ledger/internal/model"
)

// CategoryInput carries the caller-supplied fields for creating or updating
// a category.
type CategoryInput struct {
	Name  string
	Type  model.TransactionType
	Icon  string
	Color string
}

func validateCategoryInput(input CategoryInput) error {
	if err := validateCategoryName(input.Name); err != nil {
		return err
	}
	if err := validateTransactionType(input.Type); err != nil {
		return err
	}
	return validateCategoryDecoration(input.Icon, input.Color)
}

// ListCategories returns the user's categories, optionally restricted to
// one type. An empty type means all categories.
func (s *Service) ListCategories(ctx context.Context, userID string, txType model.TransactionType) ([]CategoryView, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if txType != "" {
		if err := validateTransactionType(txType); err != nil {
			return nil, err
		}
	}

	cats, err := s.store.ListCategories(ctx, userID, txType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	views := make([]CategoryView, 0, len(cats))
	for i := range cats {
		views = append(views, *categoryView(&cats[i]))
	}
	return views, nil
}

// CreateCategory creates a new category. The (user, type, name) combination
// must be unique.
func (s *Service) CreateCategory(ctx context.Context, userID string, input CategoryInput) (*CategoryView, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cat := &model.Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      input.Name,
		Type:      input.Type,
		Icon:      input.Icon,
		Color:     input.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return categoryView(cat), nil
}

// UpdateCategory replaces a category's fields, scoped to the owner.
func (s *Service) UpdateCategory(ctx context.Context, userID, id string, input CategoryInput) (*CategoryView, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}

	cat, err := s.store.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	cat.Name = input.Name
	cat.Type = input.Type
	cat.Icon = input.Icon
	cat.Color = input.Color
	cat.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return categoryView(cat), nil
}

// DeleteCategory removes a category by id, scoped to the owner.
func (s *Service) DeleteCategory(ctx context.Context, userID, id string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return s.store.DeleteCategory(ctx, userID, id)
}
