package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/api/responses"
	"github.com/angelmondragon/wayfarer-backend/api/validators"
	"github.com/angelmondragon/wayfarer-backend/internal/normalize"
	"github.com/angelmondragon/wayfarer-backend/internal/wizard"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
)

const sessionIDParam = "sessionId"

// WizardSessions starts, resolves and cancels wizard sessions.
type WizardSessions interface {
	Start(ctx context.Context, kind enums.BookingType, ref uuid.UUID) (wizard.Snapshot, error)
	Session(id uuid.UUID) (*wizard.Wizard, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type wizardAction func(w *wizard.Wizard, r *http.Request) (wizard.Snapshot, error)

func WizardStart(svc WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		var payload bookingTarget
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, ref, err := payload.resolve()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Start(r.Context(), kind, ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, snap)
	}
}

func WizardFetch(svc WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return wizardHandler(svc, logg, func(wz *wizard.Wizard, _ *http.Request) (wizard.Snapshot, error) {
		return wz.Snapshot(), nil
	})
}

// WizardPatch merges raw form values into the session draft. Unknown keys
// are rejected; null or absent keys leave the draft untouched.
func WizardPatch(svc WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return wizardHandler(svc, logg, func(wz *wizard.Wizard, r *http.Request) (wizard.Snapshot, error) {
		var raw normalize.RawPatch
		if err := validators.DecodeJSONBody(r, &raw); err != nil {
			return wizard.Snapshot{}, err
		}
		return wz.Patch(r.Context(), raw)
	})
}

func WizardNext(svc WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return wizardHandler(svc, logg, func(wz *wizard.Wizard, r *http.Request) (wizard.Snapshot, error) {
		return wz.Next(r.Context())
	})
}

func WizardPrevious(svc WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return wizardHandler(svc, logg, func(wz *wizard.Wizard, r *http.Request) (wizard.Snapshot, error) {
		return wz.Previous(r.Context())
	})
}

func WizardSubmit(svc WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return wizardHandler(svc, logg, func(wz *wizard.Wizard, r *http.Request) (wizard.Snapshot, error) {
		return wz.Submit(r.Context())
	})
}

func WizardCancel(svc WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}
		id, err := validators.PathUUID(r, sessionIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Cancel(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"sessionId": id.String(), "status": "cancelled"})
	}
}

func wizardHandler(svc WizardSessions, logg *logger.Logger, action wizardAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}
		id, err := validators.PathUUID(r, sessionIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		wz, err := svc.Session(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := action(wz, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}
