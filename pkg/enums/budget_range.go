package enums

import "fmt"

// BudgetRange is the per-day spending tier of a custom trip.
type BudgetRange string

const (
	BudgetRangeBudget   BudgetRange = "budget"
	BudgetRangeModerate BudgetRange = "moderate"
	BudgetRangeLuxury   BudgetRange = "luxury"
	BudgetRangePremium  BudgetRange = "premium"
)

var validBudgetRanges = []BudgetRange{
	BudgetRangeBudget,
	BudgetRangeModerate,
	BudgetRangeLuxury,
	BudgetRangePremium,
}

// String implements fmt.Stringer.
func (b BudgetRange) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BudgetRange.
func (b BudgetRange) IsValid() bool {
	for _, candidate := range validBudgetRanges {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBudgetRange converts raw input into a BudgetRange.
func ParseBudgetRange(value string) (BudgetRange, error) {
	for _, candidate := range validBudgetRanges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid budget range %q", value)
}
