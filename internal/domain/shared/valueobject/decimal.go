// Package valueobject holds the fixed-precision primitives every service
// passes monetary and quantity inputs through before persisting them.
package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MoneyPlaces is the scale of money columns, decimal(12,2)
	MoneyPlaces int32 = 2
	// QuantityPlaces is the scale of quantity columns, decimal(14,4)
	QuantityPlaces int32 = 4
)

var hundred = decimal.NewFromInt(100)

// QuantizeMoney rounds d to 2 places, half away from zero
func QuantizeMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// QuantizeQty rounds d to 4 places, half away from zero
func QuantizeQty(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}

// ZeroMoney is 0.00
func ZeroMoney() decimal.Decimal {
	return decimal.Zero.Round(MoneyPlaces)
}

// ParseMoney parses s and quantizes it to money precision.
// An empty string is read as zero.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := parse(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return QuantizeMoney(d), nil
}

// ParseQty parses s and quantizes it to quantity precision.
// An empty string is read as zero.
func ParseQty(s string) (decimal.Decimal, error) {
	d, err := parse(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return QuantizeQty(d), nil
}

func parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	// Accept the decimal comma used on Brazilian receipts
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// Percent returns value% of base, unrounded
func Percent(base, value decimal.Decimal) decimal.Decimal {
	return base.Mul(value).Div(hundred)
}

// ApplyMarkup returns cost × (1 + markup/100) quantized to money
func ApplyMarkup(cost, markupPercent decimal.Decimal) decimal.Decimal {
	cost = QuantizeMoney(cost)
	factor := decimal.NewFromInt(1).Add(markupPercent.Div(hundred))
	return QuantizeMoney(cost.Mul(factor))
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
