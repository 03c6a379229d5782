package booking

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	"github.com/angelmondragon/wayfarer-backend/pkg/types"
)

// Travelers holds the party composition. Infants travel free.
type Travelers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// Total counts every guest, infants included.
func (t Travelers) Total() int {
	return t.Adults + t.Children + t.Infants
}

// Paying counts the guests that take part in group discounts.
func (t Travelers) Paying() int {
	return t.Adults + t.Children
}

type TravelDates struct {
	StartDate types.Date `json:"startDate"`
	EndDate   types.Date `json:"endDate"`
}

// Complete reports whether both dates are set.
func (d TravelDates) Complete() bool {
	return !d.StartDate.IsZero() && !d.EndDate.IsZero()
}

// Days is the span from start to end; zero until both dates are set.
func (d TravelDates) Days() int {
	if !d.Complete() {
		return 0
	}
	return d.StartDate.DaysUntil(d.EndDate)
}

type Accommodation struct {
	Type     enums.AccommodationType `json:"type"`
	RoomType enums.RoomType          `json:"roomType"`
	Rooms    int                     `json:"rooms"`
}

type Transportation struct {
	Type           string `json:"type,omitempty"`
	PickupRequired bool   `json:"pickupRequired"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
}

// Payment is the chosen method and the amount to charge. A zero amount means unset.
type Payment struct {
	Method enums.PaymentMethod `json:"method"`
	Amount decimal.Decimal     `json:"amount"`
}

// PriceBreakdown is a derived quote. TotalAmount always equals
// BasePrice + RoomPrice + Taxes + Fees - Discounts.
type PriceBreakdown struct {
	BasePrice   decimal.Decimal `json:"basePrice"`
	RoomPrice   decimal.Decimal `json:"roomPrice"`
	Taxes       decimal.Decimal `json:"taxes"`
	Fees        decimal.Decimal `json:"fees"`
	Discounts   decimal.Decimal `json:"discounts"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency"`
}

// Equal compares every component of two breakdowns.
func (p *PriceBreakdown) Equal(other *PriceBreakdown) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.BasePrice.Equal(other.BasePrice) &&
		p.RoomPrice.Equal(other.RoomPrice) &&
		p.Taxes.Equal(other.Taxes) &&
		p.Fees.Equal(other.Fees) &&
		p.Discounts.Equal(other.Discounts) &&
		p.TotalAmount.Equal(other.TotalAmount) &&
		p.Currency == other.Currency
}

// Base is the shape every draft variant shares.
type Base struct {
	Travelers        Travelers        `json:"travelers"`
	TravelDates      TravelDates      `json:"travelDates"`
	Accommodation    Accommodation    `json:"accommodation"`
	Transportation   Transportation   `json:"transportation"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	Payment          Payment          `json:"payment"`
	// Pricing is nil until the draft is quotable. Only the pricing calculator writes it.
	Pricing         *PriceBreakdown `json:"pricing"`
	SpecialRequests []string        `json:"specialRequests"`
}

func (b Base) clone() Base {
	out := b
	if b.Pricing != nil {
		p := *b.Pricing
		out.Pricing = &p
	}
	out.SpecialRequests = append([]string(nil), b.SpecialRequests...)
	return out
}

// Draft is the in-progress booking. It is one of *PackageDraft, *CustomDraft
// or *DestinationDraft.
type Draft interface {
	Type() enums.BookingType
	Common() *Base
	// CatalogRef names the catalog entry the draft is priced against; ok is
	// false when the variant has none.
	CatalogRef() (kind enums.BookingType, id uuid.UUID, ok bool)
	Clone() Draft
	sealed()
}

type PackageDraft struct {
	Base
	PackageID uuid.UUID `json:"packageId"`
}

func (d *PackageDraft) Type() enums.BookingType { return enums.BookingTypePackage }
func (d *PackageDraft) Common() *Base           { return &d.Base }
func (d *PackageDraft) sealed()                 {}

func (d *PackageDraft) CatalogRef() (enums.BookingType, uuid.UUID, bool) {
	return enums.BookingTypePackage, d.PackageID, d.PackageID != uuid.Nil
}

func (d *PackageDraft) Clone() Draft {
	out := *d
	out.Base = d.Base.clone()
	return &out
}

func (d *PackageDraft) MarshalJSON() ([]byte, error) {
	type alias PackageDraft
	return json.Marshal(struct {
		Type enums.BookingType `json:"type"`
		*alias
	}{enums.BookingTypePackage, (*alias)(d)})
}

type DestinationDraft struct {
	Base
	DestinationID uuid.UUID `json:"destinationId"`
}

func (d *DestinationDraft) Type() enums.BookingType { return enums.BookingTypeDestination }
func (d *DestinationDraft) Common() *Base           { return &d.Base }
func (d *DestinationDraft) sealed()                 {}

func (d *DestinationDraft) CatalogRef() (enums.BookingType, uuid.UUID, bool) {
	return enums.BookingTypeDestination, d.DestinationID, d.DestinationID != uuid.Nil
}

func (d *DestinationDraft) Clone() Draft {
	out := *d
	out.Base = d.Base.clone()
	return &out
}

func (d *DestinationDraft) MarshalJSON() ([]byte, error) {
	type alias DestinationDraft
	return json.Marshal(struct {
		Type enums.BookingType `json:"type"`
		*alias
	}{enums.BookingTypeDestination, (*alias)(d)})
}

type Preferences struct {
	Interests []string `json:"interests"`
	Notes     string   `json:"notes,omitempty"`
}

// CustomDraft is a tailor-made trip priced from a per-day budget tier.
// DestinationID is optional and only forwarded on submission.
type CustomDraft struct {
	Base
	DestinationID uuid.UUID         `json:"destinationId,omitempty"`
	BudgetRange   enums.BudgetRange `json:"budgetRange"`
	Preferences   Preferences       `json:"preferences"`
}

func (d *CustomDraft) Type() enums.BookingType { return enums.BookingTypeCustom }
func (d *CustomDraft) Common() *Base           { return &d.Base }
func (d *CustomDraft) sealed()                 {}

func (d *CustomDraft) CatalogRef() (enums.BookingType, uuid.UUID, bool) {
	return "", uuid.Nil, false
}

func (d *CustomDraft) Clone() Draft {
	out := *d
	out.Base = d.Base.clone()
	out.Preferences.Interests = append([]string(nil), d.Preferences.Interests...)
	return &out
}

func (d *CustomDraft) MarshalJSON() ([]byte, error) {
	type alias CustomDraft
	return json.Marshal(struct {
		Type enums.BookingType `json:"type"`
		*alias
	}{enums.BookingTypeCustom, (*alias)(d)})
}

// New creates a draft of the requested kind with the wizard defaults applied.
func New(kind enums.BookingType, ref uuid.UUID) (Draft, error) {
	base := Base{
		Travelers: Travelers{Adults: 1},
		Accommodation: Accommodation{
			Type:     enums.AccommodationTypeBudget,
			RoomType: enums.RoomTypeDouble,
			Rooms:    1,
		},
		SpecialRequests: []string{},
	}
	switch kind {
	case enums.BookingTypePackage:
		if ref == uuid.Nil {
			return nil, fmt.Errorf("package bookings need a package id")
		}
		return &PackageDraft{Base: base, PackageID: ref}, nil
	case enums.BookingTypeDestination:
		if ref == uuid.Nil {
			return nil, fmt.Errorf("destination bookings need a destination id")
		}
		return &DestinationDraft{Base: base, DestinationID: ref}, nil
	case enums.BookingTypeCustom:
		return &CustomDraft{Base: base, DestinationID: ref, Preferences: Preferences{Interests: []string{}}}, nil
	default:
		return nil, fmt.Errorf("invalid booking type %q", kind)
	}
}
