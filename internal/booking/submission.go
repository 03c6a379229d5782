package booking

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
)

// Submission is the create-booking payload sent to the booking API.
type Submission struct {
	Package          *uuid.UUID        `json:"package,omitempty"`
	Destination      *uuid.UUID        `json:"destination,omitempty"`
	BookingType      enums.BookingType `json:"bookingType"`
	BookingDetails   Details           `json:"bookingDetails"`
	Pricing          *PriceBreakdown   `json:"pricing"`
	Payment          SubmittedPayment  `json:"payment"`
	EmergencyContact EmergencyContact  `json:"emergencyContact"`
	SpecialRequests  []string          `json:"specialRequests"`
	BookingSource    string            `json:"bookingSource"`
	BudgetRange      enums.BudgetRange `json:"budgetRange,omitempty"`
	Preferences      *Preferences      `json:"preferences,omitempty"`
}

type Details struct {
	Travelers      Travelers      `json:"travelers"`
	TravelDates    TravelDates    `json:"travelDates"`
	Accommodation  Accommodation  `json:"accommodation"`
	Transportation Transportation `json:"transportation"`
}

// SubmittedPayment only names the method; the amount travels in Pricing.
type SubmittedPayment struct {
	Method enums.PaymentMethod `json:"method"`
}

// NewSubmission converts a draft into the create-booking payload.
func NewSubmission(d Draft, source string) Submission {
	snapshot := d.Clone()
	b := snapshot.Common()
	out := Submission{
		BookingType: snapshot.Type(),
		BookingDetails: Details{
			Travelers:      b.Travelers,
			TravelDates:    b.TravelDates,
			Accommodation:  b.Accommodation,
			Transportation: b.Transportation,
		},
		Pricing:          b.Pricing,
		Payment:          SubmittedPayment{Method: b.Payment.Method},
		EmergencyContact: b.EmergencyContact,
		SpecialRequests:  b.SpecialRequests,
		BookingSource:    source,
	}
	if out.SpecialRequests == nil {
		out.SpecialRequests = []string{}
	}

	switch v := snapshot.(type) {
	case *PackageDraft:
		id := v.PackageID
		out.Package = &id
	case *DestinationDraft:
		id := v.DestinationID
		out.Destination = &id
	case *CustomDraft:
		if v.DestinationID != uuid.Nil {
			id := v.DestinationID
			out.Destination = &id
		}
		out.BudgetRange = v.BudgetRange
		prefs := v.Preferences
		out.Preferences = &prefs
	}
	return out
}
