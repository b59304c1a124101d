package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
)

// Input bounds shared by the validation helpers.
const (
	maxNoteLength         = 1000
	maxCategoryNameLength = 100
	maxIconLength         = 50
	maxColorLength        = 7
	minBudgetYear         = 2000
	maxBudgetYear         = 2100
)

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return common.Validationf("user id is required")
	}
	return nil
}

func validateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return common.Validationf("month must be between 1 and 12, got %d", month)
	}
	if year < minBudgetYear || year > maxBudgetYear {
		return common.Validationf("year must be between %d and %d, got %d", minBudgetYear, maxBudgetYear, year)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return common.Validationf("amount must be greater than 0")
	}
	return nil
}

func validateCurrency(currency string) error {
	if len(currency) != 3 {
		return common.Validationf("currency must be a 3-letter code, got %q", currency)
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return common.Validationf("currency must be a 3-letter code, got %q", currency)
		}
	}
	return nil
}

func validateNote(note string) error {
	if len(note) > maxNoteLength {
		return common.Validationf("note exceeds %d characters", maxNoteLength)
	}
	return nil
}

func validateTransactionType(t model.TransactionType) error {
	if !t.Valid() {
		return common.Validationf("unknown transaction type %q", t)
	}
	return nil
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return common.Validationf("category name is required")
	}
	if len(name) > maxCategoryNameLength {
		return common.Validationf("category name exceeds %d characters", maxCategoryNameLength)
	}
	return nil
}

func validateCategoryDecoration(icon, color string) error {
	if len(icon) > maxIconLength {
		return common.Validationf("icon exceeds %d characters", maxIconLength)
	}
	if len(color) > maxColorLength {
		return common.Validationf("color exceeds %d characters", maxColorLength)
	}
	return nil
}
