package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned when an amount cannot be parsed as a decimal number.
var ErrNotNumeric = errors.New("amount is not numeric")

// Cents is a monetary value held as an integer number of minor currency units.
type Cents = int64

// ToCents converts a decimal amount into minor units, rounding half away from zero.
func ToCents(d decimal.Decimal) Cents {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ParseAmount converts a raw decimal amount (string or number) into minor units.
// "29.90", 29.90 and json.Number("29.90") all yield 2990; -5.50 yields -550.
func ParseAmount(raw any) (Cents, error) {
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return 0, ErrNotNumeric
		}
		return ToCents(d), nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return 0, ErrNotNumeric
		}
		return ToCents(d), nil
	case float64:
		return ToCents(decimal.NewFromFloat(v)), nil
	case int:
		return ToCents(decimal.NewFromInt(int64(v))), nil
	case int64:
		return ToCents(decimal.NewFromInt(v)), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrNotNumeric, raw)
	}
}

// FormatCents renders minor units as a fixed two-decimal string, e.g. 1600 -> "16.00".
func FormatCents(c Cents) string {
	return decimal.New(c, -2).StringFixed(2)
}
