package core

// Watcher is one presence-feed subscription. Membership snapshots are pushed
// to Updates until the subscription's request closes.
type Watcher struct {
	ID      string
	updates chan []string
}

// NewWatcher constructs a watcher with a buffered update channel.
func NewWatcher(id string) *Watcher {
	return &Watcher{
		ID:      id,
		updates: make(chan []string, 8),
	}
}

// Updates is the stream of membership snapshots for this subscription.
func (w *Watcher) Updates() <-chan []string { return w.updates }

// push delivers a snapshot without blocking. A stalled subscriber misses
// intermediate snapshots rather than delaying room mutation.
func (w *Watcher) push(names []string) {
	select {
	case w.updates <- names:
	default:
	}
}
