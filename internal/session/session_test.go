package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager(ttl time.Duration) (*Manager, *time.Time) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(ttl)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestBeginAndLookup(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	userID := uuid.New()

	s := m.Begin(userID, "ana@mesa.test")

	got, ok := m.Lookup(s.ID)
	if !ok {
		t.Fatal("expected session to be active")
	}
	if got.UserID != userID || got.Identifier != "ana@mesa.test" {
		t.Errorf("unexpected session: %+v", got)
	}
	if !got.ExpiresAt.Equal(got.StartedAt.Add(time.Hour)) {
		t.Errorf("expires at: got %v", got.ExpiresAt)
	}
}

func TestEnd(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	s := m.Begin(uuid.New(), "ana")

	if !m.End(s.ID) {
		t.Fatal("expected End to report an active session")
	}
	if _, ok := m.Lookup(s.ID); ok {
		t.Fatal("session should be gone after End")
	}
	if m.End(s.ID) {
		t.Fatal("second End should report false")
	}
}

func TestLookupExpired(t *testing.T) {
	m, now := newTestManager(time.Minute)
	s := m.Begin(uuid.New(), "ana")

	*now = now.Add(2 * time.Minute)

	if _, ok := m.Lookup(s.ID); ok {
		t.Fatal("expired session must not be returned")
	}
	if m.Len() != 0 {
		t.Errorf("expired session should be dropped on lookup, have %d", m.Len())
	}
}

func TestSweep(t *testing.T) {
	m, now := newTestManager(time.Minute)
	m.Begin(uuid.New(), "a")
	m.Begin(uuid.New(), "b")

	*now = now.Add(30 * time.Second)
	fresh := m.Begin(uuid.New(), "c")

	*now = now.Add(45 * time.Second)
	if removed := m.Sweep(); removed != 2 {
		t.Errorf("removed: got %d, want 2", removed)
	}
	if _, ok := m.Lookup(fresh.ID); !ok {
		t.Error("fresh session should survive sweep")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context should carry no session")
	}
	s := Session{ID: uuid.New(), Identifier: "ana"}
	got, ok := FromContext(NewContext(context.Background(), s))
	if !ok || got.ID != s.ID {
		t.Fatalf("got %+v, %v", got, ok)
	}
}
