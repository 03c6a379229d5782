package wizard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/internal/draft"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
)

// ServiceParams configure the wizard service.
type ServiceParams struct {
	Params
	Registry *Registry
}

// Service starts wizard sessions and resolves them by id.
type Service struct {
	params   Params
	registry *Registry
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Quotes == nil {
		return nil, fmt.Errorf("quote service required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("booking submitter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry(0, params.Metrics)
	}
	return &Service{params: params.Params, registry: registry}, nil
}

func (s *Service) Registry() *Registry {
	return s.registry
}

// Start opens a session over a fresh draft of kind. ref names the package
// or destination; custom trips may pass uuid.Nil.
func (s *Service) Start(ctx context.Context, kind enums.BookingType, ref uuid.UUID) (Snapshot, error) {
	d, err := booking.New(kind, ref)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	w, err := Open(ctx, uuid.New(), draft.NewMemoryStore(d), s.params)
	if err != nil {
		return Snapshot{}, err
	}
	s.registry.Add(w)
	s.params.Logger.Info(w.logCtx(ctx), "booking wizard started")
	return w.Snapshot(), nil
}

func (s *Service) Session(id uuid.UUID) (*Wizard, error) {
	return s.registry.Get(id)
}

// Cancel discards the session's draft and forgets the session.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	w, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	if err := w.Cancel(ctx); err != nil {
		return err
	}
	s.registry.Remove(id)
	return nil
}
