package model

import "time"

// Category represents a user-defined classification for transactions.
// A category has the same type domain as transactions and may only be
// attached to transactions of the matching type.
type Category struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	UserID    string
	Name      string
	Type      TransactionType
	Icon      string
	Color     string
}
