// Package textutil holds the pure text/currency normalization
// functions the offer pipeline depends on.
package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var nonDigit = regexp.MustCompile(`[^\d]`)
var trailingFraction = regexp.MustCompile(`\.\d+\s*$`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// StripCurrency removes currency symbols, thousands separators and
// whitespace, returning the remaining digits as a non-negative integer.
// A fractional component is truncated, so "2,000.00" yields 2000.
// Absent or digitless input yields 0, never an error.
func StripCurrency(value string) int64 {
	text := strings.TrimSpace(value)
	if text == "" {
		return 0
	}
	// rupee amounts are integral, a trailing fraction is truncated
	text = trailingFraction.ReplaceAllString(text, "")
	cleaned := nonDigit.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Capitalize upper-cases the first rune and lower-cases the rest,
// "CREDIT" -> "Credit".
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// NormalizePage collapses runs of whitespace to single spaces and
// lower-cases, producing the text form deliverability phrases are
// searched in.
func NormalizePage(s string) string {
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
