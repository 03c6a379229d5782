package enums

import "fmt"

// RoomType describes the room configuration requested for the stay.
type RoomType string

const (
	RoomTypeStandard   RoomType = "standard"
	RoomTypeDeluxe     RoomType = "deluxe"
	RoomTypeSuite      RoomType = "suite"
	RoomTypeFamily     RoomType = "family"
	RoomTypeConnecting RoomType = "connecting"
	RoomTypeSingle     RoomType = "single"
	RoomTypeDouble     RoomType = "double"
	RoomTypeTwin       RoomType = "twin"
	RoomTypeTriple     RoomType = "triple"
)

var validRoomTypes = []RoomType{
	RoomTypeStandard,
	RoomTypeDeluxe,
	RoomTypeSuite,
	RoomTypeFamily,
	RoomTypeConnecting,
	RoomTypeSingle,
	RoomTypeDouble,
	RoomTypeTwin,
	RoomTypeTriple,
}

// String implements fmt.Stringer.
func (r RoomType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RoomType.
func (r RoomType) IsValid() bool {
	for _, candidate := range validRoomTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRoomType converts raw input into a RoomType.
func ParseRoomType(value string) (RoomType, error) {
	for _, candidate := range validRoomTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid room type %q", value)
}
