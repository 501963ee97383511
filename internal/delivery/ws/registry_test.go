package ws

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_BindAndLookup(t *testing.T) {
	r := NewRegistry()
	c := newMockClient(nil)

	r.Bind("r1", "alice", c)

	got, ok := r.Lookup("r1", "alice")
	if !ok || got.ConnID() != c.ID {
		t.Fatal("Expected alice to resolve to her connection")
	}
	if _, ok := r.Lookup("r2", "alice"); ok {
		t.Error("Expected binding to be room-scoped")
	}
	if r.Count() != 1 {
		t.Errorf("Expected 1 binding, got %d", r.Count())
	}
}

func TestRegistry_RebindReplacesOld(t *testing.T) {
	r := NewRegistry()
	oldConn := newMockClient(nil)
	newConn := newMockClient(nil)

	r.Bind("r1", "alice", oldConn)
	r.Bind("r1", "alice", newConn)

	if got, _ := r.Lookup("r1", "alice"); got.ConnID() != newConn.ID {
		t.Error("Expected the newest connection to win")
	}
	if released := r.UnbindConn(oldConn); len(released) != 0 {
		t.Errorf("Expected stale connection to release nothing, got %v", released)
	}
	if _, ok := r.Lookup("r1", "alice"); !ok {
		t.Error("Expected binding to survive the stale connection's cleanup")
	}
}

func TestRegistry_UnbindConnReleasesEveryRoom(t *testing.T) {
	r := NewRegistry()
	c := newMockClient(nil)
	other := newMockClient(nil)

	r.Bind("r2", "alice", c)
	r.Bind("r1", "alice", c)
	r.Bind("r1", "bob", other)

	released := r.UnbindConn(c)
	want := []Binding{{Room: "r1", Username: "alice"}, {Room: "r2", Username: "alice"}}
	if len(released) != len(want) {
		t.Fatalf("Expected %d bindings, got %v", len(want), released)
	}
	for i := range want {
		if released[i] != want[i] {
			t.Errorf("Expected binding %d to be %v, got %v", i, want[i], released[i])
		}
	}
	if r.Count() != 1 {
		t.Errorf("Expected only bob's binding left, got %d", r.Count())
	}
	if r.UnbindConn(c) != nil {
		t.Error("Expected a second cleanup to be a no-op")
	}
}

func TestRegistry_Unbind(t *testing.T) {
	r := NewRegistry()
	c := newMockClient(nil)
	r.Bind("r1", "alice", c)
	r.Bind("r2", "alice", c)

	r.Unbind("r1", "alice")
	r.Unbind("r1", "nobody")

	if _, ok := r.Lookup("r1", "alice"); ok {
		t.Error("Expected r1 binding removed")
	}
	if _, ok := r.Lookup("r2", "alice"); !ok {
		t.Error("Expected r2 binding kept")
	}
	if r.Count() != 1 {
		t.Errorf("Expected 1 binding left, got %d", r.Count())
	}
}

func TestRegistry_Concurrency(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newMockClient(nil)
			room := fmt.Sprintf("room%d", i%5)
			r.Bind(room, fmt.Sprintf("user%d", i), c)
			r.Lookup(room, fmt.Sprintf("user%d", i))
			if i%2 == 0 {
				r.UnbindConn(c)
			}
		}(i)
	}
	wg.Wait()

	if r.Count() != 50 {
		t.Errorf("Expected 50 bindings, got %d", r.Count())
	}
}
