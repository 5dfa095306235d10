package billing

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every displayed monetary value.
const CurrencySymbol = "₹"

// Leading numeric prefix of a form value: "12.5kg" reads as 12.5, "abc" as nothing.
var numberPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// ParseNumber reads the leading number of a form value. ok is false when
// the text does not start with a number at all.
func ParseNumber(s string) (float64, bool) {
	m := numberPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

// NumberOrZero is ParseNumber with malformed input coerced to 0.
func NumberOrZero(s string) float64 {
	v, ok := ParseNumber(s)
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatAmount renders v with two decimals; non-finite values render empty.
func FormatAmount(v float64) string {
	if !finite(v) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatCurrency is FormatAmount with the currency prefix.
func FormatCurrency(v float64) string {
	s := FormatAmount(v)
	if s == "" {
		return ""
	}
	return CurrencySymbol + s
}
