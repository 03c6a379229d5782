package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/pkg/db"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/wayfarer-backend/pkg/redis"
)

// Service answers catalog lookups, reading through the Redis cache when one
// is configured. Cache failures degrade to a database read.
type Service struct {
	repo  Reader
	cache pkgredis.CacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

func NewService(repo Reader, cache pkgredis.CacheStore, ttl time.Duration, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, logg: logg}
}

// Lookup returns the entry a draft of kind is priced against.
func (s *Service) Lookup(ctx context.Context, kind enums.BookingType, id uuid.UUID) (*booking.CatalogEntry, error) {
	if kind != enums.BookingTypePackage && kind != enums.BookingTypeDestination {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "catalog has no %q entries", kind)
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog id is required")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"catalog_kind": kind.String(), "catalog_id": id.String()})
	if entry, ok := s.fromCache(ctx, kind, id); ok {
		return entry, nil
	}

	entry, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, entry)
	return entry, nil
}

// Invalidate drops the cached copy of one entry.
func (s *Service) Invalidate(ctx context.Context, kind enums.BookingType, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, s.cache.CatalogKey(kind.String(), id.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate catalog cache")
	}
	return nil
}

func (s *Service) load(ctx context.Context, kind enums.BookingType, id uuid.UUID) (*booking.CatalogEntry, error) {
	switch kind {
	case enums.BookingTypePackage:
		pkg, err := s.repo.FindPackage(ctx, id)
		if err != nil {
			return nil, lookupError(err, "package")
		}
		return entryFromPackage(pkg), nil
	default:
		dest, err := s.repo.FindDestination(ctx, id)
		if err != nil {
			return nil, lookupError(err, "destination")
		}
		return entryFromDestination(dest), nil
	}
}

func lookupError(err error, label string) error {
	if db.IsNotFound(err) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "%s not found", label)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+label)
}

func (s *Service) fromCache(ctx context.Context, kind enums.BookingType, id uuid.UUID) (*booking.CatalogEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.CatalogKey(kind.String(), id.String()))
	if err != nil {
		if !pkgredis.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache read failed")
		}
		return nil, false
	}
	var entry booking.CatalogEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache entry unreadable")
		return nil, false
	}
	return &entry, true
}

func (s *Service) store(ctx context.Context, entry *booking.CatalogEntry) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, s.cache.CatalogKey(entry.Kind.String(), entry.ID.String()), string(payload), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
	}
}
