package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending for one category during one calendar month.
// At most one budget may exist per (user, category, month, year).
type Budget struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	UserID      string
	CategoryID  string
	Currency    string
	Month       int
	Year        int
	LimitAmount decimal.Decimal
}
