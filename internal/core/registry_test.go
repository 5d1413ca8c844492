package core

import (
	"reflect"
	"testing"
)

func TestRegistryWatchCreatesRoomAndSnapshots(t *testing.T) {
	reg := NewRegistry()
	w := NewWatcher("w1")

	reg.Watch("192.0.2.1", w)

	rooms, peers := reg.Stats()
	if rooms != 1 || peers != 0 {
		t.Fatalf("stats = (%d, %d), want (1, 0)", rooms, peers)
	}

	select {
	case names := <-w.Updates():
		if len(names) != 0 {
			t.Fatalf("initial snapshot = %v, want empty", names)
		}
	default:
		t.Fatal("watcher received no initial snapshot")
	}
}

func TestRegistryUnwatchReapsEmptyRoom(t *testing.T) {
	reg := NewRegistry()
	w := NewWatcher("w1")

	reg.Watch("192.0.2.1", w)
	reg.Unwatch("192.0.2.1", w)

	if rooms, _ := reg.Stats(); rooms != 0 {
		t.Fatalf("rooms after unwatch = %d, want 0", rooms)
	}

	// Unwatching an unknown room is a no-op.
	reg.Unwatch("192.0.2.9", w)
}

func TestRegistryWatcherKeepsRoomAlive(t *testing.T) {
	rl, reg := newTestRelay(1000)

	w := NewWatcher("w1")
	reg.Watch("lobby", w)
	drain(w)

	a, _ := accept(rl, "a")
	join(t, a, "lobby", "alice")

	// Watcher sees the join.
	select {
	case names := <-w.Updates():
		if !reflect.DeepEqual(names, []string{"alice"}) {
			t.Fatalf("snapshot after join = %v, want [alice]", names)
		}
	default:
		t.Fatal("watcher not informed of join")
	}

	a.HandleClosed("")

	// Last socket gone, but the watcher holds the room open.
	if rooms, peers := reg.Stats(); rooms != 1 || peers != 0 {
		t.Fatalf("stats after leave = (%d, %d), want (1, 0)", rooms, peers)
	}
	select {
	case names := <-w.Updates():
		if len(names) != 0 {
			t.Fatalf("snapshot after leave = %v, want empty", names)
		}
	default:
		t.Fatal("watcher not informed of leave")
	}

	reg.Unwatch("lobby", w)
	if rooms, _ := reg.Stats(); rooms != 0 {
		t.Fatalf("rooms after unwatch = %d, want 0", rooms)
	}
}

func drain(w *Watcher) {
	for {
		select {
		case <-w.Updates():
		default:
			return
		}
	}
}
