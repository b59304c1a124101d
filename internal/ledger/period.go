// Package ledger implements the financial aggregation engine: period math,
// budget progress, dashboard assembly, and transaction search, on top of
// the storage contracts in internal/service.
package ledger

import (
	"time"

	"github.com/akfinance/ledger/internal/service"
)

// ResolvePeriod turns a (month, year) pair into the half-open UTC interval
// [from, to) covering that calendar month. December rolls over into January
// of the following year. Month must already be validated to 1..12; this is
// a pure function with no failure mode of its own.
func ResolvePeriod(month, year int) service.Period {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return service.Period{
		From: from,
		To:   from.AddDate(0, 1, 0),
	}
}
