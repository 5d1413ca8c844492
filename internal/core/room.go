package core

// Room is the set of joined sockets for one identifier plus its presence
// watchers. Socket order is join order and drives broadcast ordering.
//
// A Room holds no lock of its own: all mutation and traversal happens under
// the owning Registry's lock.
type Room struct {
	Name string

	sockets  []*Socket
	sender   *Socket
	watchers map[string]*Watcher
}

// NewRoom constructs an empty room.
func NewRoom(name string) *Room {
	return &Room{
		Name:     name,
		watchers: make(map[string]*Watcher),
	}
}

// AddSocket appends s to the room's membership.
func (r *Room) AddSocket(s *Socket) {
	r.sockets = append(r.sockets, s)
}

// RemoveSocket removes s by identity; absent sockets are a no-op. When the
// departing socket is the recorded transfer sender, the sender reference is
// cleared so stale lookups resolve to no sender.
func (r *Room) RemoveSocket(s *Socket) {
	for i, member := range r.sockets {
		if member == s {
			r.sockets = append(r.sockets[:i], r.sockets[i+1:]...)
			break
		}
	}
	if r.sender == s {
		r.sender = nil
	}
}

// SocketByName resolves a member by display name, nil when absent.
func (r *Room) SocketByName(name string) *Socket {
	for _, member := range r.sockets {
		if member.Name == name {
			return member
		}
	}
	return nil
}

// SetSender records s as the room's current file-transfer sender.
func (r *Room) SetSender(s *Socket) { r.sender = s }

// Sender is the socket currently designated transfer sender, nil when the
// sender has left or none was recorded.
func (r *Room) Sender() *Socket { return r.sender }

// MemberNames is the ordered list of joined display names, used for
// membership snapshots and emptiness checks.
func (r *Room) MemberNames() []string {
	names := make([]string, 0, len(r.sockets))
	for _, member := range r.sockets {
		names = append(names, member.Name)
	}
	return names
}

// Empty reports whether the room has neither sockets nor watchers and should
// be dropped from the registry.
func (r *Room) Empty() bool {
	return len(r.sockets) == 0 && len(r.watchers) == 0
}

// Broadcast sends (kind, payload) to every member not in exclude, in join
// order. Delivery is best-effort per socket; one failed send does not stop
// the fan-out.
func (r *Room) Broadcast(kind string, payload any, exclude ...*Socket) {
	for _, member := range r.sockets {
		if excluded(member, exclude) {
			continue
		}
		_ = member.Send(kind, payload)
	}
}

func excluded(s *Socket, exclude []*Socket) bool {
	for _, e := range exclude {
		if e != nil && e == s {
			return true
		}
	}
	return false
}

// AddWatcher registers a presence-feed subscription.
func (r *Room) AddWatcher(w *Watcher) {
	r.watchers[w.ID] = w
}

// RemoveWatcher drops a subscription; absent watchers are a no-op.
func (r *Room) RemoveWatcher(w *Watcher) {
	delete(r.watchers, w.ID)
}

// InformWatchers pushes the current membership snapshot to the given
// watchers, or to every watcher when none are given.
func (r *Room) InformWatchers(subset ...*Watcher) {
	names := r.MemberNames()
	if len(subset) > 0 {
		for _, w := range subset {
			w.push(names)
		}
		return
	}
	for _, w := range r.watchers {
		w.push(names)
	}
}
