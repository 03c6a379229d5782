package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/metrics"
)

const defaultSessionTTL = 30 * time.Minute

type session struct {
	wizard      *Wizard
	lastSeen    time.Time
	unsubscribe func()
}

// Registry holds the live wizard sessions of this process. A session idle
// for longer than the TTL expires; draft changes and lookups count as
// activity.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      func() time.Time
	metrics  *metrics.BookingMetrics
}

func NewRegistry(ttl time.Duration, m *metrics.BookingMetrics) *Registry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Registry{
		sessions: map[uuid.UUID]*session{},
		ttl:      ttl,
		now:      time.Now,
		metrics:  m,
	}
}

func (r *Registry) Add(w *Wizard) {
	id := w.ID()
	unsubscribe := w.Store().Subscribe(func(booking.Draft) { r.touch(id) })

	r.mu.Lock()
	r.sessions[id] = &session{wizard: w, lastSeen: r.now(), unsubscribe: unsubscribe}
	n := len(r.sessions)
	r.mu.Unlock()
	r.metrics.SetActiveSessions(n)
}

// Get returns a live session. Unknown ids are NOT_FOUND; idle ones are
// dropped and reported as expired.
func (r *Registry) Get(id uuid.UUID) (*Wizard, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking session not found")
	}
	if r.idle(s) {
		delete(r.sessions, id)
		n := len(r.sessions)
		r.mu.Unlock()
		if !s.wizard.expire() {
			r.restore(id, s)
			return s.wizard, nil
		}
		s.unsubscribe()
		r.metrics.SetActiveSessions(n)
		return nil, pkgerrors.New(pkgerrors.CodeExpired, "booking session expired")
	}
	s.lastSeen = r.now()
	r.mu.Unlock()
	return s.wizard, nil
}

// Remove forgets a session without touching its wizard.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	if ok {
		s.unsubscribe()
		r.metrics.SetActiveSessions(n)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep expires every idle session and returns how many were dropped.
// Sessions with a submission in flight are kept.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	idle := map[uuid.UUID]*session{}
	for id, s := range r.sessions {
		if r.idle(s) {
			idle[id] = s
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	dropped := 0
	for id, s := range idle {
		if !s.wizard.expire() {
			r.restore(id, s)
			continue
		}
		s.unsubscribe()
		dropped++
	}
	r.metrics.SetActiveSessions(r.Len())
	return dropped
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration, logg *logger.Logger) error {
	if logg == nil {
		logg = logger.Nop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logg.Info(ctx, "wizard session sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logg.Info(logg.WithField(ctx, "expired_sessions", n), "wizard sessions expired")
			}
		}
	}
}

func (r *Registry) idle(s *session) bool {
	return r.now().Sub(s.lastSeen) > r.ttl
}

func (r *Registry) touch(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
	}
}

func (r *Registry) restore(id uuid.UUID, s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.lastSeen = r.now()
	r.sessions[id] = s
}
