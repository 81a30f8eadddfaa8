package aggregation

import (
	"github.com/shopspring/decimal"
)

// priceScale is the number of decimal places kept on derived ratios.
const priceScale = 2

// Bucket accumulates one dimension-value combination. Sales and Count only
// ever grow during a pass and are never negative.
type Bucket struct {
	Sales decimal.Decimal
	Count int64
}

// AvgPrice is the bucket's average unit price, 0 for an empty bucket.
func (b Bucket) AvgPrice() decimal.Decimal {
	return SafeDiv(b.Sales, b.Count)
}

// SafeDiv divides sales by n, returning 0 when n is not positive. Every
// ratio in the summary goes through here.
func SafeDiv(sales decimal.Decimal, n int64) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return sales.DivRound(decimal.NewFromInt(n), priceScale)
}
