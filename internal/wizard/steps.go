package wizard

import "github.com/angelmondragon/wayfarer-backend/pkg/enums"

// StepsFor lists the wizard steps of a booking kind in order. Only custom
// trips collect preferences.
func StepsFor(kind enums.BookingType) []enums.WizardStep {
	steps := []enums.WizardStep{enums.WizardStepTravelers, enums.WizardStepAccommodation}
	if kind == enums.BookingTypeCustom {
		steps = append(steps, enums.WizardStepPreferences)
	}
	return append(steps,
		enums.WizardStepEmergencyContact,
		enums.WizardStepPayment,
		enums.WizardStepReview,
	)
}

func indexOf(steps []enums.WizardStep, step enums.WizardStep) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}
