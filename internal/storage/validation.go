package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akfinance/ledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidPeriod  = errors.New("period start must be before period end")
	ErrInvalidTxnType = errors.New("invalid transaction type")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTxnType ensures the type is one of the known values.
func validateTxnType(t model.TransactionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTxnType, t)
	}
	return nil
}
