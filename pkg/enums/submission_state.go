package enums

import "fmt"

// SubmissionState tracks the single in-flight create-booking request.
type SubmissionState string

const (
	SubmissionStateIdle    SubmissionState = "idle"
	SubmissionStatePending SubmissionState = "pending"
	SubmissionStateSettled SubmissionState = "settled"
)

var validSubmissionStates = []SubmissionState{
	SubmissionStateIdle,
	SubmissionStatePending,
	SubmissionStateSettled,
}

// String implements fmt.Stringer.
func (s SubmissionState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionState.
func (s SubmissionState) IsValid() bool {
	for _, candidate := range validSubmissionStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionState converts raw input into a SubmissionState.
func ParseSubmissionState(value string) (SubmissionState, error) {
	for _, candidate := range validSubmissionStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission state %q", value)
}
