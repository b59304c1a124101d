package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
	"github.com/akfinance/ledger/internal/service"
)

// TransactionInput carries the caller-supplied fields for creating or fully
// replacing a transaction. Currency may be empty, in which case the user's
// default currency is applied.
type TransactionInput struct {
	OccurredAt time.Time
	Type       model.TransactionType
	Currency   string
	CategoryID string
	Note       string
	Amount     decimal.Decimal
}

func (s *Service) validateTransactionInput(input TransactionInput) error {
	if err := validateTransactionType(input.Type); err != nil {
		return err
	}
	if err := validateAmount(input.Amount); err != nil {
		return err
	}
	if input.OccurredAt.IsZero() {
		return common.Validationf("occurredAt is required")
	}
	if input.Currency != "" {
		if err := validateCurrency(input.Currency); err != nil {
			return err
		}
	}
	return validateNote(input.Note)
}

// resolveCategory checks that the referenced category exists, belongs to the
// user, and has the same type as the transaction it is being attached to.
func (s *Service) resolveCategory(ctx context.Context, userID, categoryID string, txType model.TransactionType) (*model.Category, error) {
	cat, err := s.store.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if cat.Type != txType {
		return nil, common.Validationf("category %q is a %s category and cannot be attached to a %s transaction",
			cat.Name, cat.Type, txType)
	}
	return cat, nil
}

// defaultCurrency returns the user's preferred currency, falling back to the
// system default when no preference row exists.
func (s *Service) defaultCurrency(ctx context.Context, userID string) (string, error) {
	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		if common.IsNotFound(err) {
			return model.DefaultCurrency, nil
		}
		return "", err
	}
	return prefs.DefaultCurrency, nil
}

// CreateTransaction records a new ledger entry for the user.
func (s *Service) CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*TransactionView, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := s.validateTransactionInput(input); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		var err error
		if currency, err = s.defaultCurrency(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to resolve default currency: %w", err)
		}
	}

	var cat *model.Category
	if input.CategoryID != "" {
		var err error
		if cat, err = s.resolveCategory(ctx, userID, input.CategoryID, input.Type); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	txn := &model.Transaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       input.Type,
		Amount:     input.Amount,
		Currency:   currency,
		OccurredAt: input.OccurredAt,
		CategoryID: input.CategoryID,
		Note:       input.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	view := s.transactionView(txn, cat)
	return &view, nil
}

// GetTransaction returns one transaction by id, scoped to the owner.
func (s *Service) GetTransaction(ctx context.Context, userID, id string) (*TransactionView, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	txn, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var cat *model.Category
	if txn.CategoryID != "" {
		if cat, err = s.store.GetCategory(ctx, userID, txn.CategoryID); err != nil && !common.IsNotFound(err) {
			return nil, err
		}
	}

	view := s.transactionView(txn, cat)
	return &view, nil
}

// UpdateTransaction fully replaces the mutable fields of a transaction.
// Unlike create, an empty currency keeps the stored one.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, input TransactionInput) (*TransactionView, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := s.validateTransactionInput(input); err != nil {
		return nil, err
	}

	txn, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var cat *model.Category
	if input.CategoryID != "" {
		if cat, err = s.resolveCategory(ctx, userID, input.CategoryID, input.Type); err != nil {
			return nil, err
		}
	}

	txn.Type = input.Type
	txn.Amount = input.Amount
	if input.Currency != "" {
		txn.Currency = input.Currency
	}
	txn.OccurredAt = input.OccurredAt
	txn.CategoryID = input.CategoryID
	txn.Note = input.Note
	txn.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	view := s.transactionView(txn, cat)
	return &view, nil
}

// DeleteTransaction removes a transaction by id, scoped to the owner.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return s.store.DeleteTransaction(ctx, userID, id)
}

// SearchTransactions lists the user's transactions matching an arbitrary
// subset of optional filters, newest first. Owner scoping is always applied;
// the storage layer may shortcut the no-filter and type-only shapes, but the
// results are identical to the general predicate conjunction.
func (s *Service) SearchTransactions(ctx context.Context, userID string, filter service.TransactionFilter, page service.Page) (*TransactionPage, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if filter.Type != "" {
		if err := validateTransactionType(filter.Type); err != nil {
			return nil, err
		}
	}
	page = page.Normalize()

	txns, total, err := s.store.SearchTransactions(ctx, userID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}

	categories, err := s.categoriesByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionView, 0, len(txns))
	for i := range txns {
		items = append(items, s.transactionView(&txns[i], categories[txns[i].CategoryID]))
	}

	return &TransactionPage{
		Items:  items,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

func (s *Service) categoriesByID(ctx context.Context, userID string) (map[string]*model.Category, error) {
	cats, err := s.store.ListCategories(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	byID := make(map[string]*model.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}
	return byID, nil
}

func (s *Service) transactionView(txn *model.Transaction, cat *model.Category) TransactionView {
	return TransactionView{
		ID:         txn.ID,
		Type:       txn.Type,
		Amount:     txn.Amount,
		Currency:   txn.Currency,
		OccurredAt: txn.OccurredAt,
		Category:   categoryView(cat),
		Note:       txn.Note,
		CreatedAt:  txn.CreatedAt,
		UpdatedAt:  txn.UpdatedAt,
	}
}
