package enums

import "fmt"

// AccommodationType is the comfort tier chosen for the stay.
type AccommodationType string

const (
	AccommodationTypeBudget   AccommodationType = "budget"
	AccommodationTypeMidRange AccommodationType = "midRange"
	AccommodationTypeLuxury   AccommodationType = "luxury"
	AccommodationTypePremium  AccommodationType = "premium"
)

var validAccommodationTypes = []AccommodationType{
	AccommodationTypeBudget,
	AccommodationTypeMidRange,
	AccommodationTypeLuxury,
	AccommodationTypePremium,
}

// String implements fmt.Stringer.
func (a AccommodationType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccommodationType.
func (a AccommodationType) IsValid() bool {
	for _, candidate := range validAccommodationTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccommodationType converts raw input into a AccommodationType.
func ParseAccommodationType(value string) (AccommodationType, error) {
	for _, candidate := range validAccommodationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid accommodation type %q", value)
}
