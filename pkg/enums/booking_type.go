package enums

import "fmt"

// BookingType selects which draft variant and pricing flow a booking uses.
type BookingType string

const (
	BookingTypePackage     BookingType = "package"
	BookingTypeCustom      BookingType = "custom"
	BookingTypeDestination BookingType = "destination"
)

var validBookingTypes = []BookingType{
	BookingTypePackage,
	BookingTypeCustom,
	BookingTypeDestination,
}

// String implements fmt.Stringer.
func (b BookingType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookingType.
func (b BookingType) IsValid() bool {
	for _, candidate := range validBookingTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBookingType converts raw input into a BookingType.
func ParseBookingType(value string) (BookingType, error) {
	for _, candidate := range validBookingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking type %q", value)
}
