package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/internal/bookingapi"
	"github.com/angelmondragon/wayfarer-backend/internal/draft"
	"github.com/angelmondragon/wayfarer-backend/internal/normalize"
	"github.com/angelmondragon/wayfarer-backend/internal/quote"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/metrics"
	"github.com/angelmondragon/wayfarer-backend/pkg/mq"
	"github.com/angelmondragon/wayfarer-backend/pkg/types"
)

// Params carry the collaborators every wizard shares.
type Params struct {
	Quotes    *quote.Service
	Submitter bookingapi.Submitter
	Publisher mq.JSONPublisher
	Metrics   *metrics.BookingMetrics
	Logger    *logger.Logger
	Source    string
	Now       func() time.Time
}

// Wizard walks one booking draft through its steps and owns its single
// submission. All operations are serialized; only the booking API call runs
// outside the lock, with the submission marked pending.
type Wizard struct {
	mu sync.Mutex

	id        uuid.UUID
	kind      enums.BookingType
	store     draft.Store
	quotes    *quote.Service
	submitter bookingapi.Submitter
	publisher mq.JSONPublisher
	metrics   *metrics.BookingMetrics
	logg      *logger.Logger
	source    string
	now       func() time.Time

	steps        []enums.WizardStep
	step         enums.WizardStep
	entry        *booking.CatalogEntry
	errors       map[string]string
	state        enums.SubmissionState
	lastErr      error
	confirmation *bookingapi.Confirmation
	closed       bool
}

// Snapshot is the read model rendered to the client.
type Snapshot struct {
	SessionID  uuid.UUID          `json:"sessionId"`
	Type       enums.BookingType  `json:"type"`
	Step       enums.WizardStep   `json:"step"`
	Steps      []enums.WizardStep `json:"steps"`
	Draft      booking.Draft      `json:"draft"`
	Errors     map[string]string  `json:"errors"`
	Submission SubmissionStatus   `json:"submission"`
}

type SubmissionStatus struct {
	State        enums.SubmissionState    `json:"state"`
	Error        string                   `json:"error,omitempty"`
	Confirmation *bookingapi.Confirmation `json:"confirmation,omitempty"`
}

// Open starts a wizard over the draft held by store. The catalog entry is
// resolved once and the draft priced before the first step.
func Open(ctx context.Context, id uuid.UUID, store draft.Store, p Params) (*Wizard, error) {
	if p.Quotes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "quote service required")
	}
	current := store.Get()
	if current == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "draft store is empty")
	}
	entry, err := p.Quotes.Entry(ctx, current)
	if err != nil {
		return nil, err
	}

	w := &Wizard{
		id:        id,
		kind:      current.Type(),
		store:     store,
		quotes:    p.Quotes,
		submitter: p.Submitter,
		publisher: p.Publisher,
		metrics:   p.Metrics,
		logg:      p.Logger,
		source:    p.Source,
		now:       p.Now,
		steps:     StepsFor(current.Type()),
		entry:     entry,
		state:     enums.SubmissionStateIdle,
	}
	if w.publisher == nil {
		w.publisher = mq.Noop{}
	}
	if w.logg == nil {
		w.logg = logger.Nop()
	}
	if w.now == nil {
		w.now = time.Now
	}
	w.step = w.steps[0]
	store.Patch(func(d booking.Draft) { w.quotes.Reprice(d, entry) })
	return w, nil
}

func (w *Wizard) ID() uuid.UUID {
	return w.id
}

// Store exposes the draft store, e.g. to subscribe to changes.
func (w *Wizard) Store() draft.Store {
	return w.store
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Patch normalizes raw form values into the draft. Pricing and the payment
// amount follow every change that can move the quote. Errors already shown
// on the current step are re-evaluated so fixed fields clear.
func (w *Wizard) Patch(ctx context.Context, raw normalize.RawPatch) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return w.snapshotLocked(), err
	}

	p := normalize.Patch(raw)
	reprice := p.TouchesPricing() || p.PaymentAmount != nil
	updated := w.store.Patch(func(d booking.Draft) {
		booking.Apply(d, p)
		if reprice {
			w.quotes.Reprice(d, w.entry)
		}
	})
	if len(w.errors) > 0 && updated != nil {
		w.errors = w.quotes.Engine().ValidateStep(w.step, updated, w.entry).Errors
	}
	w.logg.Debug(w.logCtx(ctx), "booking draft patched")
	return w.snapshotLocked(), nil
}

// Next advances one step when the current step's fields validate. A failed
// gate keeps the step and reports the failures in the snapshot.
func (w *Wizard) Next(ctx context.Context) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return w.snapshotLocked(), err
	}
	idx := indexOf(w.steps, w.step)
	if idx < 0 || idx == len(w.steps)-1 {
		return w.snapshotLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "review is the last step; submit the booking instead").
			WithDetails(map[string]any{"step": w.step.String()})
	}

	result := w.quotes.Engine().ValidateStep(w.step, w.store.Get(), w.entry)
	if !result.IsValid {
		w.errors = result.Errors
		w.metrics.IncValidationFailures(result.Fields())
		w.logg.Info(w.logField(ctx, "invalid_fields", result.Fields()), "wizard step blocked")
		return w.snapshotLocked(), nil
	}
	w.errors = nil
	w.step = w.steps[idx+1]
	return w.snapshotLocked(), nil
}

// Previous moves back one step without validation.
func (w *Wizard) Previous(context.Context) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return w.snapshotLocked(), err
	}
	if idx := indexOf(w.steps, w.step); idx > 0 {
		w.step = w.steps[idx-1]
		w.errors = nil
	}
	return w.snapshotLocked(), nil
}

// Submit validates the whole draft and sends it to the booking API. Only one
// submission may be in flight; a failed one leaves the draft intact and is
// not retried.
func (w *Wizard) Submit(ctx context.Context) (Snapshot, error) {
	w.mu.Lock()
	if err := w.guard(); err != nil {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, err
	}
	if w.step != enums.WizardStepReview {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, pkgerrors.New(pkgerrors.CodeStateConflict, "bookings can only be submitted from the review step").
			WithDetails(map[string]any{"step": snap.Step.String()})
	}

	current := w.store.Patch(func(d booking.Draft) { w.quotes.Reprice(d, w.entry) })
	result := w.quotes.Engine().Validate(current, w.entry)
	if !result.IsValid {
		w.errors = result.Errors
		w.metrics.IncValidationFailures(result.Fields())
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, pkgerrors.New(pkgerrors.CodeValidation, "booking has invalid fields").WithDetails(types.FieldErrors(result.Errors))
	}
	if w.submitter == nil {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, pkgerrors.New(pkgerrors.CodeDependency, "booking api not configured")
	}

	w.errors = nil
	w.lastErr = nil
	w.state = enums.SubmissionStatePending
	sub := booking.NewSubmission(current, w.source)
	w.mu.Unlock()

	// A started submission runs to completion even if the caller goes away;
	// the booking API client's timeout bounds it.
	started := w.now()
	conf, err := w.submitter.CreateBooking(context.WithoutCancel(ctx), sub)
	elapsed := w.now().Sub(started)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = enums.SubmissionStateSettled
	if err != nil {
		w.lastErr = err
		w.metrics.ObserveSubmission(w.kind.String(), metrics.OutcomeFailed, elapsed)
		w.logg.Error(w.logCtx(ctx), "booking submission failed", err)
		return w.snapshotLocked(), err
	}

	w.confirmation = conf
	w.step = enums.WizardStepSubmitted
	w.store.Discard()
	w.metrics.ObserveSubmission(w.kind.String(), metrics.OutcomeSucceeded, elapsed)
	w.logg.Info(w.logField(ctx, "booking_id", conf.ID), "booking submitted")
	w.publish(ctx, conf, sub)
	return w.snapshotLocked(), nil
}

// Cancel discards the draft. A submission in flight cannot be cancelled.
func (w *Wizard) Cancel(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == enums.SubmissionStatePending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "submission already in progress")
	}
	w.close()
	w.logg.Info(w.logCtx(ctx), "booking wizard cancelled")
	return nil
}

// expire closes the wizard unless a submission is in flight. It reports
// whether the wizard was closed.
func (w *Wizard) expire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == enums.SubmissionStatePending {
		return false
	}
	w.close()
	return true
}

func (w *Wizard) close() {
	if w.closed {
		return
	}
	w.closed = true
	w.store.Discard()
}

func (w *Wizard) guard() error {
	switch {
	case w.closed:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "booking session closed")
	case w.state == enums.SubmissionStatePending:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "submission already in progress")
	case w.step == enums.WizardStepSubmitted:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "booking already submitted")
	}
	return nil
}

func (w *Wizard) publish(ctx context.Context, conf *bookingapi.Confirmation, sub booking.Submission) {
	event := SubmittedEvent{
		SessionID:   w.id,
		BookingID:   conf.ID,
		Reference:   conf.Reference,
		Submission:  sub,
		SubmittedAt: w.now().UTC(),
	}
	if err := w.publisher.PublishJSON(ctx, mq.RoutingBookingSubmitted, event); err != nil {
		w.logg.Warn(w.logField(ctx, "error", err.Error()), "booking submitted event not published")
	}
}

func (w *Wizard) snapshotLocked() Snapshot {
	errs := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		errs[k] = v
	}
	return Snapshot{
		SessionID: w.id,
		Type:      w.kind,
		Step:      w.step,
		Steps:     append([]enums.WizardStep(nil), w.steps...),
		Draft:     w.store.Get(),
		Errors:    errs,
		Submission: SubmissionStatus{
			State:        w.state,
			Error:        publicMessage(w.lastErr),
			Confirmation: w.confirmation,
		},
	}
}

func (w *Wizard) logCtx(ctx context.Context) context.Context {
	ctx = w.logg.WithSessionID(ctx, w.id.String())
	return w.logg.WithBookingType(ctx, w.kind.String())
}

func (w *Wizard) logField(ctx context.Context, key string, value any) context.Context {
	return w.logg.WithField(w.logCtx(ctx), key, value)
}

// publicMessage is what the client sees for a failed submission. Rejections
// from the booking API keep their message.
func publicMessage(err error) string {
	if err == nil {
		return ""
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return pkgerrors.MetadataFor(pkgerrors.CodeDependency).PublicMessage
		}
		return pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage
	}
	if typed.Code() == pkgerrors.CodeValidation {
		return typed.Message()
	}
	return pkgerrors.MetadataFor(typed.Code()).PublicMessage
}
