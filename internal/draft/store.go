package draft

import (
	"sync"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
)

// Listener receives a snapshot of the draft after every change.
type Listener func(booking.Draft)

// Store owns one booking draft. Readers and listeners only ever see copies.
type Store interface {
	Get() booking.Draft
	Patch(func(booking.Draft)) booking.Draft
	Subscribe(Listener) (unsubscribe func())
	Discard()
}

// MemoryStore is the in-process Store used by a wizard session.
type MemoryStore struct {
	mu        sync.Mutex
	draft     booking.Draft
	listeners map[int]Listener
	nextID    int
}

func NewMemoryStore(d booking.Draft) *MemoryStore {
	return &MemoryStore{draft: d, listeners: map[int]Listener{}}
}

// Get returns a copy of the current draft, or nil once discarded.
func (s *MemoryStore) Get() booking.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	return s.draft.Clone()
}

// Patch runs mutate against the owned draft and returns the new snapshot.
// It is a no-op returning nil after Discard.
func (s *MemoryStore) Patch(mutate func(booking.Draft)) booking.Draft {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return nil
	}
	mutate(s.draft)
	snapshot := s.draft.Clone()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot.Clone())
	}
	return snapshot
}

// Subscribe registers l until the returned func is called.
func (s *MemoryStore) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Discard drops the draft; later reads return nil.
func (s *MemoryStore) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

func (s *MemoryStore) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}
