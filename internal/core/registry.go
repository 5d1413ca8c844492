package core

import "sync"

// Registry owns every live room. Its mutex is the single lock serializing
// membership mutation against broadcast fan-out; frame writes behind Broadcast
// are non-blocking queue pushes, so holding the lock across them is safe.
//
// Invariant: a room is present iff it has at least one joined socket or at
// least one watcher.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// getOrCreate returns the named room, creating it if absent. Callers hold mu.
func (g *Registry) getOrCreate(name string) *Room {
	room, ok := g.rooms[name]
	if !ok {
		room = NewRoom(name)
		g.rooms[name] = room
	}
	return room
}

// reap drops the room once it holds neither sockets nor watchers. Callers
// hold mu.
func (g *Registry) reap(room *Room) {
	if room.Empty() {
		delete(g.rooms, room.Name)
	}
}

// Stats returns the room count and the total joined-socket count across all
// rooms, for the status endpoint.
func (g *Registry) Stats() (rooms, peers int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, room := range g.rooms {
		peers += len(room.sockets)
	}
	return len(g.rooms), peers
}

// Watch subscribes w to the membership of roomName, creating a watcher-only
// room when none exists, and pushes an immediate snapshot to w.
func (g *Registry) Watch(roomName string, w *Watcher) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room := g.getOrCreate(roomName)
	room.AddWatcher(w)
	room.InformWatchers(w)
}

// Unwatch removes the subscription and drops the room if it is now empty.
func (g *Registry) Unwatch(roomName string, w *Watcher) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomName]
	if !ok {
		return
	}
	room.RemoveWatcher(w)
	g.reap(room)
}
