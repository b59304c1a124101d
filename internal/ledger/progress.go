package ledger

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// ProgressPercent reports how much of a budget's limit has been spent, as a
// percentage rounded half-up to four decimal places and clamped to [0, 100].
// A nonpositive limit yields 0 rather than an arithmetic fault; overspend is
// visible in the raw spent figure, never in the percentage.
func ProgressPercent(limit, spent decimal.Decimal) float64 {
	if limit.Sign() <= 0 {
		return 0
	}

	percent := spent.Mul(oneHundred).DivRound(limit, 4)
	if percent.Sign() < 0 {
		return 0
	}
	if percent.GreaterThan(oneHundred) {
		return 100
	}

	value, _ := percent.Float64()
	return value
}
