// Package pricing normalizes the heterogeneous price representations that
// reach the catalog (numbers, bare strings, strings with currency markers)
// into the single canonical stored form: a two-decimal string.
package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonicalize converts raw price input into the canonical stored form.
//
// nil and empty strings become nil ("unknown" at the presentation layer).
// Parseable numeric input is stored exactly as supplied, formatted to two
// fractional digits; no magnitude guessing of any kind. An unparseable
// string is kept verbatim so no caller-supplied data is ever lost.
func Canonicalize(raw any) *string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(stripCurrency(v))
		if trimmed == "" {
			return nil
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			kept := strings.TrimSpace(v)
			return &kept
		}
		return format(n)
	case float64:
		return format(v)
	case float32:
		return format(float64(v))
	case int:
		return format(float64(v))
	case int64:
		return format(float64(v))
	case uint:
		return format(float64(v))
	case fmt.Stringer:
		return Canonicalize(v.String())
	default:
		return nil
	}
}

// Parse extracts a numeric value for aggregation. Currency markers are
// stripped; absent or unparseable prices contribute zero rather than failing
// the aggregate.
func Parse(price *string) float64 {
	if price == nil {
		return 0
	}
	trimmed := strings.TrimSpace(stripCurrency(*price))
	if trimmed == "" {
		return 0
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return n
}

func format(n float64) *string {
	s := strconv.FormatFloat(n, 'f', 2, 64)
	return &s
}

func stripCurrency(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '¥', '￥', '$', '€', '£':
			return -1
		}
		return r
	}, s)
}
