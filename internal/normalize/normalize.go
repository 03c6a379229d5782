// Package normalize turns raw form values into typed booking fields. Nothing
// here fails: unparsable counts become 0 and unparsable dates stay unset, so
// the validation engine is the single place that reports problems.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/pkg/types"
)

var leadingNumber = regexp.MustCompile(`^[+-]?\d+`)

// MaxCount caps parsed counts far above any booking limit, so sums and ratios
// over travelers and rooms cannot overflow while the limit rules still fire.
const MaxCount = 1_000_000

// Count parses a traveler or room count. "3 adults" yields 3, "2.9" yields 2,
// negatives and garbage yield 0, and anything above MaxCount yields MaxCount.
func Count(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	digits := trimmed
	if _, err := strconv.Atoi(trimmed); err != nil {
		if digits = leadingNumber.FindString(trimmed); digits == "" {
			return 0
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// only out-of-range digit runs get here
		if strings.HasPrefix(digits, "-") {
			return 0
		}
		return MaxCount
	}
	switch {
	case n < 0:
		return 0
	case n > MaxCount:
		return MaxCount
	}
	return int(n)
}

// Date parses YYYY-MM-DD or an RFC3339 timestamp; anything else is unset.
func Date(raw string) types.Date {
	d, err := types.ParseDate(raw)
	if err != nil {
		return types.Date{}
	}
	return d
}

// Amount parses a money value; unparsable input is zero, which reads as unset.
func Amount(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Text trims surrounding whitespace.
func Text(raw string) string {
	return strings.TrimSpace(raw)
}

// Lines trims every entry and drops the blank ones, keeping order.
func Lines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
