package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	"github.com/angelmondragon/wayfarer-backend/pkg/types"
)

const (
	maxAdults           = 20
	maxChildren         = 10
	maxInfants          = 5
	infantsPerAdult     = 2
	maxRooms            = 10
	minTripDays         = 1
	maxTripDays         = 90
	minCustomTripDays   = 2
	maxYearsAhead       = 2
	packageDurationSlop = 1
	minContactName      = 2
	minContactPhone     = 10
	minRelationship     = 2
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	minPaymentAmount = decimal.NewFromInt(50)
	maxPaymentAmount = decimal.NewFromInt(100000)
)

// Engine evaluates every rule group against a draft. It holds no state besides
// the clock, so one engine can serve every wizard.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone in which "today" is decided.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today is the current calendar date in the engine's zone.
func (e *Engine) Today() types.Date {
	return types.DateOf(e.now().In(e.loc))
}

// Validate runs every applicable rule and reports all failures at once.
// entry may be nil when the catalog has nothing for the draft.
func (e *Engine) Validate(d booking.Draft, entry *booking.CatalogEntry) Result {
	errs := failures{}
	b := d.Common()

	checkDates(errs, b.TravelDates, e.Today())
	checkTravelers(errs, b.Travelers, entry)
	checkAccommodation(errs, b.Accommodation, b.Travelers.Total())
	checkEmergencyContact(errs, b.EmergencyContact)
	checkPayment(errs, b.Payment)

	switch v := d.(type) {
	case *booking.PackageDraft:
		checkCatalogEntry(errs, FieldPackage, "package", enums.BookingTypePackage, b.TravelDates, entry)
		checkPackageDuration(errs, b.TravelDates, entry)
	case *booking.DestinationDraft:
		checkCatalogEntry(errs, FieldDestination, "destination", enums.BookingTypeDestination, b.TravelDates, entry)
	case *booking.CustomDraft:
		checkCustom(errs, v)
	}
	return newResult(errs)
}

// ValidateStep validates the whole draft and keeps the failures owned by step.
func (e *Engine) ValidateStep(step enums.WizardStep, d booking.Draft, entry *booking.CatalogEntry) Result {
	return e.Validate(d, entry).Scope(FieldsForStep(step))
}

// failures keeps the first message per key; later rules on the same key are
// more specific follow-ups of the first.
type failures map[string]string

func (f failures) add(field, format string, args ...any) {
	if _, exists := f[field]; exists {
		return
	}
	f[field] = fmt.Sprintf(format, args...)
}

func checkDates(errs failures, dates booking.TravelDates, today types.Date) {
	start, end := dates.StartDate, dates.EndDate

	switch {
	case start.IsZero():
		errs.add(FieldStartDate, "startDate is required")
	case start.Before(today):
		errs.add(FieldStartDate, "startDate cannot be in the past")
	case start.After(today.AddYears(maxYearsAhead)):
		errs.add(FieldStartDate, "startDate cannot be more than %d years in advance", maxYearsAhead)
	}

	switch {
	case end.IsZero():
		errs.add(FieldEndDate, "endDate is required")
	case !start.IsZero() && !end.After(start):
		errs.add(FieldEndDate, "endDate must be after start date")
	}

	if !dates.Complete() {
		return
	}
	switch days := dates.Days(); {
	case days < minTripDays:
		errs.add(FieldDuration, "trip must last at least %d day", minTripDays)
	case days > maxTripDays:
		errs.add(FieldDuration, "trip cannot exceed %d days", maxTripDays)
	}
}

func checkTravelers(errs failures, t booking.Travelers, entry *booking.CatalogEntry) {
	switch {
	case t.Adults < 1:
		errs.add(FieldAdults, "at least 1 adult is required")
	case t.Adults > maxAdults:
		errs.add(FieldAdults, "no more than %d adults per booking", maxAdults)
	}
	if t.Children > maxChildren {
		errs.add(FieldChildren, "no more than %d children per booking", maxChildren)
	}
	if t.Infants > maxInfants {
		errs.add(FieldInfants, "no more than %d infants per booking", maxInfants)
	}
	if t.Infants > infantsPerAdult*t.Adults {
		errs.add(FieldInfantRatio, "each adult can travel with at most %d infants", infantsPerAdult)
	}
	if entry != nil && entry.MaxGroupSize != nil && t.Total() > *entry.MaxGroupSize {
		errs.add(FieldGroupSize, "group size cannot exceed %d travelers", *entry.MaxGroupSize)
	}
}

// MinRoomsFor is the fewest rooms of roomType that fit guests; never below 1.
func MinRoomsFor(roomType enums.RoomType, guests int) int {
	var rooms int
	switch roomType {
	case enums.RoomTypeSingle:
		rooms = guests
	case enums.RoomTypeDouble, enums.RoomTypeTwin:
		rooms = ceilDiv(guests, 2)
	case enums.RoomTypeTriple:
		rooms = ceilDiv(guests, 3)
	case enums.RoomTypeFamily:
		rooms = ceilDiv(guests, 4)
	default:
		rooms = ceilDiv(guests, 2)
	}
	if rooms < 1 {
		return 1
	}
	return rooms
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

func checkAccommodation(errs failures, a booking.Accommodation, guests int) {
	switch {
	case a.Type == "":
		errs.add(FieldAccommodationType, "accommodation type is required")
	case !a.Type.IsValid():
		errs.add(FieldAccommodationType, "unknown accommodation type %q", a.Type)
	}

	switch {
	case a.RoomType == "":
		errs.add(FieldRoomType, "room type is required")
	case !a.RoomType.IsValid():
		errs.add(FieldRoomType, "unknown room type %q", a.RoomType)
	}

	if minRooms := MinRoomsFor(a.RoomType, guests); a.Rooms < minRooms {
		errs.add(FieldRooms, "at least %d room(s) required for %d guests", minRooms, guests)
	}
	if a.Rooms > maxRooms {
		errs.add(FieldRooms, "no more than %d rooms per booking", maxRooms)
	}
}

func checkEmergencyContact(errs failures, c booking.EmergencyContact) {
	checkMinLength(errs, FieldContactName, "emergency contact name", c.Name, minContactName)
	checkMinLength(errs, FieldContactPhone, "emergency contact phone", c.Phone, minContactPhone)
	checkMinLength(errs, FieldContactRelationship, "relationship", c.Relationship, minRelationship)

	email := strings.TrimSpace(c.Email)
	switch {
	case email == "":
		errs.add(FieldContactEmail, "emergency contact email is required")
	case !emailPattern.MatchString(email):
		errs.add(FieldContactEmail, "emergency contact email is invalid")
	}
}

func checkMinLength(errs failures, field, label, value string, min int) {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		errs.add(field, "%s is required", label)
	case utf8.RuneCountInString(trimmed) < min:
		errs.add(field, "%s must be at least %d characters", label, min)
	}
}

func checkPayment(errs failures, p booking.Payment) {
	switch {
	case p.Method == "":
		errs.add(FieldPaymentMethod, "payment method is required")
	case !p.Method.IsValid():
		errs.add(FieldPaymentMethod, "payment method must be one of credit_card, debit_card, bank_transfer, paypal, stripe")
	}

	switch {
	case p.Amount.IsZero():
		errs.add(FieldPaymentAmount, "payment amount is required")
	case !p.Amount.IsPositive():
		errs.add(FieldPaymentAmount, "payment amount must be greater than 0")
	case p.Amount.LessThan(minPaymentAmount):
		errs.add(FieldPaymentAmount, "payment amount must be at least %s", minPaymentAmount.StringFixed(2))
	case p.Amount.GreaterThan(maxPaymentAmount):
		errs.add(FieldPaymentAmount, "payment amount cannot exceed %s", maxPaymentAmount.StringFixed(2))
	}
}

func checkCatalogEntry(errs failures, field, label string, kind enums.BookingType, dates booking.TravelDates, entry *booking.CatalogEntry) {
	switch {
	case entry == nil || entry.Kind != kind:
		errs.add(field, "%s not found", label)
		return
	case !entry.IsActive:
		errs.add(field, "%s is not currently available", label)
	}
	if start := dates.StartDate; !start.IsZero() && entry.Excludes(start.Month) {
		errs.add(FieldSeasonalAvailability, "%s is not available in %s", label, start.Month)
	}
}

func checkPackageDuration(errs failures, dates booking.TravelDates, entry *booking.CatalogEntry) {
	if entry == nil || entry.DurationDays == nil || !dates.Complete() {
		return
	}
	days, want := dates.Days(), *entry.DurationDays
	if diff := days - want; diff > packageDurationSlop || diff < -packageDurationSlop {
		errs.add(FieldPackageDuration, "trip length of %d days does not match the package duration of %d days", days, want)
	}
}

func checkCustom(errs failures, d *booking.CustomDraft) {
	switch {
	case d.BudgetRange == "":
		errs.add(FieldBudgetRange, "budget range is required")
	case !d.BudgetRange.IsValid():
		errs.add(FieldBudgetRange, "unknown budget range %q", d.BudgetRange)
	}
	if d.TravelDates.Complete() && d.TravelDates.Days() < minCustomTripDays {
		errs.add(FieldCustomDuration, "custom trips must last at least %d days", minCustomTripDays)
	}
}
