package record

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// amountNoise is stripped from monetary strings before parsing.
var amountNoise = strings.NewReplacer(
	",", "",
	" ", "",
	"\u00a0", "",
	"원", "",
	"₩", "",
	"￦", "",
	"KRW", "",
	"krw", "",
	"$", "",
)

// ParseAmount coerces a monetary cell into a non-negative decimal.
// Returns decimal.Zero if the value is missing, unparseable, negative, or not a
// recognized type. JSON numbers arrive as float64, spreadsheet cells as
// strings with thousands separators and currency markers ("1,000원").
func ParseAmount(v interface{}) decimal.Decimal {
	var d decimal.Decimal
	switch val := v.(type) {
	case decimal.Decimal:
		d = val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(val)
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(f)
	case int:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case int32:
		d = decimal.NewFromInt(int64(val))
	case string:
		s := amountNoise.Replace(strings.TrimSpace(val))
		if s == "" {
			return decimal.Zero
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	default:
		return decimal.Zero
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
