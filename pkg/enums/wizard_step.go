package enums

import "fmt"

// WizardStep names one screen of the booking wizard.
type WizardStep string

const (
	WizardStepTravelers        WizardStep = "travelers"
	WizardStepAccommodation    WizardStep = "accommodation"
	WizardStepPreferences      WizardStep = "preferences"
	WizardStepEmergencyContact WizardStep = "emergency_contact"
	WizardStepPayment          WizardStep = "payment"
	WizardStepReview           WizardStep = "review"
	WizardStepSubmitted        WizardStep = "submitted"
)

var validWizardSteps = []WizardStep{
	WizardStepTravelers,
	WizardStepAccommodation,
	WizardStepPreferences,
	WizardStepEmergencyContact,
	WizardStepPayment,
	WizardStepReview,
	WizardStepSubmitted,
}

// String implements fmt.Stringer.
func (w WizardStep) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WizardStep.
func (w WizardStep) IsValid() bool {
	for _, candidate := range validWizardSteps {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWizardStep converts raw input into a WizardStep.
func ParseWizardStep(value string) (WizardStep, error) {
	for _, candidate := range validWizardSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wizard step %q", value)
}
