package extensibility_test

import (
	"testing"

	"github.com/kestrelflow/eventchain/internal/extensibility"
)

func TestMemoryStateServiceGetSetState(t *testing.T) {
	s := extensibility.NewMemoryStateService()

	if _, ok := s.GetState([]string{"a", "b"}); ok {
		t.Fatal("expected no value before any SetState")
	}

	s.SetState([]string{"a", "b"}, 42)
	v, ok := s.GetState([]string{"a", "b"})
	if !ok || v != 42 {
		t.Fatalf("expected (42, true), got (%v, %v)", v, ok)
	}
}

func TestMemoryStateServiceItems(t *testing.T) {
	s := extensibility.NewMemoryStateService()

	s.AddItem("players", "p1", map[string]any{"name": "alice"})
	s.AddItem("players", "p2", map[string]any{"name": "bob"})

	ids := s.GetItemIDs("players")
	if len(ids) != 2 {
		t.Fatalf("expected 2 item ids, got %v", ids)
	}

	s.RemoveItem("players", "p1")
	ids = s.GetItemIDs("players")
	if len(ids) != 1 || ids[0] != "p2" {
		t.Fatalf("expected only p2 to remain, got %v", ids)
	}
}

func TestMemoryStateServiceElapsedTime(t *testing.T) {
	s := extensibility.NewMemoryStateService()

	if _, ok := s.ElapsedTime([]string{"clock"}); ok {
		t.Fatal("expected no elapsed time before any SetState")
	}

	s.SetState([]string{"clock"}, 1500.0)
	v, ok := s.ElapsedTime([]string{"clock"})
	if !ok || v != 1500.0 {
		t.Fatalf("expected (1500, true), got (%v, %v)", v, ok)
	}
}

func TestLoggingStateServiceDelegates(t *testing.T) {
	inner := extensibility.NewMemoryStateService()
	logged := extensibility.NewLoggingStateService(inner)

	logged.SetState([]string{"x"}, "y")
	v, ok := inner.GetState([]string{"x"})
	if !ok || v != "y" {
		t.Fatalf("expected write to reach the wrapped service, got (%v, %v)", v, ok)
	}

	logged.AddItem("rooms", "r1", "lobby")
	if ids := logged.GetItemIDs("rooms"); len(ids) != 1 {
		t.Fatalf("expected 1 room id, got %v", ids)
	}
}
