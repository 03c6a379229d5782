package normalize

import (
	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	"github.com/angelmondragon/wayfarer-backend/pkg/types"
)

// RawPatch is the form payload as the browser sends it. Absent sections and
// fields leave the draft untouched.
type RawPatch struct {
	Travelers        *RawTravelers      `json:"travelers"`
	TravelDates      *RawTravelDates    `json:"travelDates"`
	Accommodation    *RawAccommodation  `json:"accommodation"`
	Transportation   *RawTransportation `json:"transportation"`
	EmergencyContact *RawContact        `json:"emergencyContact"`
	Payment          *RawPayment        `json:"payment"`
	SpecialRequests  *[]string          `json:"specialRequests"`
	BudgetRange      *string            `json:"budgetRange"`
	Preferences      *RawPreferences    `json:"preferences"`
}

type RawTravelers struct {
	Adults   *types.FlexString `json:"adults"`
	Children *types.FlexString `json:"children"`
	Infants  *types.FlexString `json:"infants"`
}

type RawTravelDates struct {
	StartDate *types.FlexString `json:"startDate"`
	EndDate   *types.FlexString `json:"endDate"`
}

type RawAccommodation struct {
	Type     *string           `json:"type"`
	RoomType *string           `json:"roomType"`
	Rooms    *types.FlexString `json:"rooms"`
}

type RawTransportation struct {
	Type           *string `json:"type"`
	PickupRequired *bool   `json:"pickupRequired"`
}

type RawContact struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Relationship *string `json:"relationship"`
}

type RawPayment struct {
	Method *string           `json:"method"`
	Amount *types.FlexString `json:"amount"`
}

type RawPreferences struct {
	Interests *[]string `json:"interests"`
	Notes     *string   `json:"notes"`
}

// Patch normalizes every present field of raw. Enum values are trimmed but
// kept even when unknown so validation can name them.
func Patch(raw RawPatch) booking.Patch {
	var p booking.Patch

	if t := raw.Travelers; t != nil {
		p.Adults = count(t.Adults)
		p.Children = count(t.Children)
		p.Infants = count(t.Infants)
	}
	if d := raw.TravelDates; d != nil {
		p.StartDate = date(d.StartDate)
		p.EndDate = date(d.EndDate)
	}
	if a := raw.Accommodation; a != nil {
		if a.Type != nil {
			v := enums.AccommodationType(Text(*a.Type))
			p.AccommodationType = &v
		}
		if a.RoomType != nil {
			v := enums.RoomType(Text(*a.RoomType))
			p.RoomType = &v
		}
		p.Rooms = count(a.Rooms)
	}
	if tr := raw.Transportation; tr != nil {
		p.TransportationType = text(tr.Type)
		p.PickupRequired = tr.PickupRequired
	}
	if c := raw.EmergencyContact; c != nil {
		p.ContactName = text(c.Name)
		p.ContactPhone = text(c.Phone)
		p.ContactEmail = text(c.Email)
		p.ContactRelationship = text(c.Relationship)
	}
	if pay := raw.Payment; pay != nil {
		if pay.Method != nil {
			v := enums.PaymentMethod(Text(*pay.Method))
			p.PaymentMethod = &v
		}
		if pay.Amount != nil {
			v := Amount(pay.Amount.String())
			p.PaymentAmount = &v
		}
	}
	if raw.SpecialRequests != nil {
		v := Lines(*raw.SpecialRequests)
		p.SpecialRequests = &v
	}
	if raw.BudgetRange != nil {
		v := enums.BudgetRange(Text(*raw.BudgetRange))
		p.BudgetRange = &v
	}
	if prefs := raw.Preferences; prefs != nil {
		if prefs.Interests != nil {
			v := Lines(*prefs.Interests)
			p.Interests = &v
		}
		p.Notes = text(prefs.Notes)
	}
	return p
}

func count(raw *types.FlexString) *int {
	if raw == nil {
		return nil
	}
	v := Count(raw.String())
	return &v
}

func date(raw *types.FlexString) *types.Date {
	if raw == nil {
		return nil
	}
	v := Date(raw.String())
	return &v
}

func text(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := Text(*raw)
	return &v
}
