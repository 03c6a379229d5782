package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeQuoted     = "quoted"
	OutcomeUnquotable = "unquotable"
	OutcomeSucceeded  = "succeeded"
	OutcomeFailed     = "failed"
)

// BookingMetrics records quote, validation and submission activity.
type BookingMetrics struct {
	quotes             *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	submitDuration     *prometheus.HistogramVec
	activeSessions     prometheus.Gauge
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_quotes_total",
		Help: "Price quotes computed, by booking type and outcome.",
	}, []string{"booking_type", "outcome"})
	validationFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_validation_failures_total",
		Help: "Validation failures reported, by field key.",
	}, []string{"field"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_submissions_total",
		Help: "Create-booking submissions, by booking type and outcome.",
	}, []string{"booking_type", "outcome"})
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_submission_duration_seconds",
		Help:    "Latency of create-booking calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "booking_wizard_sessions",
		Help: "Wizard sessions currently held in memory.",
	})
	reg.MustRegister(quotes, validationFailures, submissions, submitDuration, activeSessions)
	return &BookingMetrics{
		quotes:             quotes,
		validationFailures: validationFailures,
		submissions:        submissions,
		submitDuration:     submitDuration,
		activeSessions:     activeSessions,
	}
}

// ObserveQuote counts one pricing run.
func (b *BookingMetrics) ObserveQuote(bookingType string, quoted bool) {
	if b == nil || b.quotes == nil {
		return
	}
	outcome := OutcomeUnquotable
	if quoted {
		outcome = OutcomeQuoted
	}
	b.quotes.WithLabelValues(normalizeLabel(bookingType), outcome).Inc()
}

// IncValidationFailures counts every failing field of one validation run.
func (b *BookingMetrics) IncValidationFailures(fields []string) {
	if b == nil || b.validationFailures == nil {
		return
	}
	for _, field := range fields {
		b.validationFailures.WithLabelValues(normalizeLabel(field)).Inc()
	}
}

// ObserveSubmission records the outcome and latency of a create-booking call.
func (b *BookingMetrics) ObserveSubmission(bookingType, outcome string, duration time.Duration) {
	if b == nil || b.submissions == nil {
		return
	}
	b.submissions.WithLabelValues(normalizeLabel(bookingType), normalizeLabel(outcome)).Inc()
	b.submitDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// SetActiveSessions reports the size of the wizard session registry.
func (b *BookingMetrics) SetActiveSessions(n int) {
	if b == nil || b.activeSessions == nil {
		return
	}
	b.activeSessions.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
