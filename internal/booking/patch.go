package booking

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	"github.com/angelmondragon/wayfarer-backend/pkg/types"
)

// Patch is a typed, already normalized set of field changes. Nil fields are left alone.
type Patch struct {
	Adults   *int
	Children *int
	Infants  *int

	StartDate *types.Date
	EndDate   *types.Date

	AccommodationType *enums.AccommodationType
	RoomType          *enums.RoomType
	Rooms             *int

	TransportationType *string
	PickupRequired     *bool

	ContactName         *string
	ContactPhone        *string
	ContactEmail        *string
	ContactRelationship *string

	PaymentMethod *enums.PaymentMethod
	PaymentAmount *decimal.Decimal

	SpecialRequests *[]string

	// custom drafts only
	BudgetRange *enums.BudgetRange
	Interests   *[]string
	Notes       *string
}

// TouchesPricing reports whether applying p can change the quote.
func (p Patch) TouchesPricing() bool {
	return p.Adults != nil || p.Children != nil || p.Infants != nil ||
		p.StartDate != nil || p.EndDate != nil ||
		p.AccommodationType != nil || p.RoomType != nil || p.Rooms != nil ||
		p.BudgetRange != nil
}

// Apply writes the set fields of p into d. Custom-only fields are ignored for
// other variants.
func Apply(d Draft, p Patch) {
	b := d.Common()

	setInt(&b.Travelers.Adults, p.Adults)
	setInt(&b.Travelers.Children, p.Children)
	setInt(&b.Travelers.Infants, p.Infants)

	if p.StartDate != nil {
		b.TravelDates.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.TravelDates.EndDate = *p.EndDate
	}

	if p.AccommodationType != nil {
		b.Accommodation.Type = *p.AccommodationType
	}
	if p.RoomType != nil {
		b.Accommodation.RoomType = *p.RoomType
	}
	setInt(&b.Accommodation.Rooms, p.Rooms)

	setString(&b.Transportation.Type, p.TransportationType)
	if p.PickupRequired != nil {
		b.Transportation.PickupRequired = *p.PickupRequired
	}

	setString(&b.EmergencyContact.Name, p.ContactName)
	setString(&b.EmergencyContact.Phone, p.ContactPhone)
	setString(&b.EmergencyContact.Email, p.ContactEmail)
	setString(&b.EmergencyContact.Relationship, p.ContactRelationship)

	if p.PaymentMethod != nil {
		b.Payment.Method = *p.PaymentMethod
	}
	if p.PaymentAmount != nil {
		b.Payment.Amount = *p.PaymentAmount
	}
	if p.SpecialRequests != nil {
		b.SpecialRequests = append([]string{}, (*p.SpecialRequests)...)
	}

	custom, ok := d.(*CustomDraft)
	if !ok {
		return
	}
	if p.BudgetRange != nil {
		custom.BudgetRange = *p.BudgetRange
	}
	if p.Interests != nil {
		custom.Preferences.Interests = append([]string{}, (*p.Interests)...)
	}
	setString(&custom.Preferences.Notes, p.Notes)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
