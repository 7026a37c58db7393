package tabskema

import (
	"math"
	"strconv"
	"strings"
)

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool { return strings.TrimSpace(s) == "" }

// ParseInteger parses a base-10, locale-invariant integer. Surrounding
// whitespace and a leading sign are accepted.
func ParseInteger(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseNumber parses a decimal or floating point value. NaN and ±Inf are
// rejected so range checks never see them.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders a threshold the way messages show it (10, 0.5, -3.25).
func FormatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
