// =============================================================================
// Invoice Ledger - Amount Parser
// =============================================================================
//
// This package converts the free-form text typed into the quantity, unit
// price and final total columns into numbers for arithmetic, and formats
// numbers back into fixed-point text for export.
//
// PARSING RULES:
//   - Leading whitespace is ignored.
//   - The longest leading decimal literal is used ("12abc" -> 12, "1,5" -> 1).
//   - Anything without a leading decimal literal is zero ("", "abc", "$5").
//   - NaN, infinities and hexadecimal literals are zero.
//
// Parsing never fails. Callers that need to know whether a value was fully
// numeric use IsNumeric.
//
// =============================================================================

package amount

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// decimalPrefix matches a decimal literal at the start of a string.
var decimalPrefix = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

// =============================================================================
// PARSING
// =============================================================================

// Parse converts text into a number, treating anything unparseable as zero.
func Parse(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	literal := decimalPrefix.FindString(s)
	if literal == "" {
		return 0
	}

	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		// Out-of-range exponents land here ("1e400").
		return 0
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}

	return value
}

// IsNumeric reports whether the whole of s (ignoring surrounding whitespace)
// is a decimal literal. Empty text is not numeric.
func IsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return decimalPrefix.FindString(s) == s
}

// Product multiplies two text values using Parse on both sides.
func Product(a, b string) float64 {
	return Parse(a) * Parse(b)
}

// Sum adds text values using Parse on each.
func Sum(values ...string) float64 {
	var total float64
	for _, v := range values {
		total += Parse(v)
	}
	return total
}

// =============================================================================
// FORMATTING
// =============================================================================

// Fixed2 renders v with exactly two decimal places, rounding half away from
// zero. Negative zero renders as "0.00".
func Fixed2(v float64) string {
	return Fixed(v, 2)
}

// Fixed renders v with the given number of decimal places.
func Fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
