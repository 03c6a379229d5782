package validation

import "github.com/angelmondragon/wayfarer-backend/pkg/enums"

// Field keys reported in Result.Errors.
const (
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldDuration  = "duration"

	FieldAdults      = "adults"
	FieldChildren    = "children"
	FieldInfants     = "infants"
	FieldInfantRatio = "infantRatio"
	FieldGroupSize   = "groupSize"

	FieldAccommodationType = "accommodationType"
	FieldRoomType          = "roomType"
	FieldRooms             = "rooms"

	FieldContactName         = "emergencyContact.name"
	FieldContactPhone        = "emergencyContact.phone"
	FieldContactEmail        = "emergencyContact.email"
	FieldContactRelationship = "emergencyContact.relationship"

	FieldPaymentMethod = "payment.method"
	FieldPaymentAmount = "payment.amount"

	FieldPackage              = "package"
	FieldPackageDuration      = "packageDuration"
	FieldSeasonalAvailability = "seasonalAvailability"
	FieldDestination          = "destination"

	FieldBudgetRange    = "budgetRange"
	FieldCustomDuration = "customDuration"
)

var stepFields = map[enums.WizardStep][]string{
	enums.WizardStepTravelers: {
		FieldStartDate, FieldEndDate, FieldDuration,
		FieldAdults, FieldChildren, FieldInfants, FieldInfantRatio, FieldGroupSize,
		FieldPackage, FieldPackageDuration, FieldSeasonalAvailability, FieldDestination,
		FieldCustomDuration,
	},
	enums.WizardStepAccommodation: {
		FieldAccommodationType, FieldRoomType, FieldRooms,
	},
	enums.WizardStepPreferences: {
		FieldBudgetRange,
	},
	enums.WizardStepEmergencyContact: {
		FieldContactName, FieldContactPhone, FieldContactEmail, FieldContactRelationship,
	},
	enums.WizardStepPayment: {
		FieldPaymentMethod, FieldPaymentAmount,
	},
}

// FieldsForStep lists the keys that gate leaving step. Review owns every key.
func FieldsForStep(step enums.WizardStep) []string {
	if step == enums.WizardStepReview {
		return AllFields()
	}
	return append([]string(nil), stepFields[step]...)
}

// AllFields lists every key the engine can report.
func AllFields() []string {
	var all []string
	for _, step := range []enums.WizardStep{
		enums.WizardStepTravelers,
		enums.WizardStepAccommodation,
		enums.WizardStepPreferences,
		enums.WizardStepEmergencyContact,
		enums.WizardStepPayment,
	} {
		all = append(all, stepFields[step]...)
	}
	return all
}
