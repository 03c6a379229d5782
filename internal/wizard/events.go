package wizard

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
)

// SubmittedEvent is published on booking.submitted after the booking API
// accepts a booking.
type SubmittedEvent struct {
	SessionID   uuid.UUID          `json:"sessionId"`
	BookingID   string             `json:"bookingId"`
	Reference   string             `json:"reference,omitempty"`
	Submission  booking.Submission `json:"submission"`
	SubmittedAt time.Time          `json:"submittedAt"`
}
