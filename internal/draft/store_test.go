package draft

import (
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
)

func newStore(t *testing.T) *MemoryStore {
	t.Helper()
	d, err := booking.New(enums.BookingTypePackage, uuid.New())
	if err != nil {
		t.Fatalf("new draft: %v", err)
	}
	return NewMemoryStore(d)
}

func TestGetReturnsCopies(t *testing.T) {
	s := newStore(t)
	got := s.Get()
	got.Common().Travelers.Adults = 9
	if s.Get().Common().Travelers.Adults != 1 {
		t.Fatal("mutating a snapshot must not change the store")
	}
}

func TestPatchNotifiesSubscribers(t *testing.T) {
	s := newStore(t)
	var seen []int
	unsubscribe := s.Subscribe(func(d booking.Draft) {
		seen = append(seen, d.Common().Travelers.Adults)
	})

	out := s.Patch(func(d booking.Draft) { d.Common().Travelers.Adults = 2 })
	if out.Common().Travelers.Adults != 2 {
		t.Fatalf("patch should return the new snapshot")
	}
	unsubscribe()
	s.Patch(func(d booking.Draft) { d.Common().Travelers.Adults = 3 })

	if len(seen) != 1 || seen[0] != 2 {
		t.Fatalf("expected one notification with 2 adults, got %v", seen)
	}
	if s.Get().Common().Travelers.Adults != 3 {
		t.Fatal("second patch should still apply")
	}
}

func TestDiscard(t *testing.T) {
	s := newStore(t)
	calls := 0
	s.Subscribe(func(booking.Draft) { calls++ })
	s.Discard()

	if s.Get() != nil {
		t.Fatal("discarded store has no draft")
	}
	if out := s.Patch(func(d booking.Draft) { d.Common().Travelers.Adults = 5 }); out != nil {
		t.Fatal("patching a discarded draft is a no-op")
	}
	if calls != 0 {
		t.Fatal("no notifications after discard")
	}
}
