package core

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
)

// HandlerFunc consumes the decoded payload of one message kind.
type HandlerFunc func(data json.RawMessage)

// Conn is the transport a Socket drives. Send must not block: delivery is
// best-effort and queuing is the adapter's problem.
type Conn interface {
	// Send serializes and transmits one typed frame.
	Send(kind string, payload any) error
	// Close performs a close handshake. An empty reason is a normal close.
	Close(reason string) error
	// Terminate tears the transport down without a handshake.
	Terminate()
	// Ping probes the peer and blocks until it acknowledges or ctx ends.
	Ping(ctx context.Context) error
	// RemoteIP is the network origin of the transport.
	RemoteIP() string
}

// Socket adapts a Conn into the typed listen/send surface the relay handlers
// are written against. Name and PeerID are set once when the join message is
// processed; IP at accept time.
type Socket struct {
	ID     string
	Name   string
	PeerID string
	IP     string

	conn  Conn
	alive atomic.Bool

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	onClose  func(reason string)
	reason   string

	closeOnce sync.Once

	// room the socket has joined, nil before join and after detach.
	// Guarded by the owning Registry's lock.
	room *Room
}

// NewSocket wraps conn. The socket starts alive and unassociated with any room.
func NewSocket(id string, conn Conn) *Socket {
	s := &Socket{
		ID:       id,
		IP:       conn.RemoteIP(),
		conn:     conn,
		handlers: make(map[string]HandlerFunc),
	}
	s.alive.Store(true)
	return s
}

// Listen registers the handler for one message kind. Registering the same
// kind again replaces the previous handler.
func (s *Socket) Listen(kind string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[kind] = fn
}

// OnClose registers the single close hook, invoked once the transport is gone.
func (s *Socket) OnClose(fn func(reason string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = fn
}

// Dispatch routes a received frame to its registered handler. Frames of an
// unrecognized kind are dropped.
func (s *Socket) Dispatch(kind string, data json.RawMessage) {
	s.mu.Lock()
	fn := s.handlers[kind]
	s.mu.Unlock()

	if fn != nil {
		fn(data)
	}
}

// Send transmits one typed frame to this socket's peer.
func (s *Socket) Send(kind string, payload any) error {
	return s.conn.Send(kind, payload)
}

// Close starts a close handshake, recording reason for the close hook.
func (s *Socket) Close(reason string) {
	s.mu.Lock()
	if s.reason == "" {
		s.reason = reason
	}
	s.mu.Unlock()

	_ = s.conn.Close(reason)
}

// Terminate tears the transport down immediately. Used by the liveness sweep;
// the close hook still fires through the adapter's read loop.
func (s *Socket) Terminate() {
	s.conn.Terminate()
}

// HandleClosed fires the close hook exactly once. The transport adapter calls
// it when the underlying connection signals closed; reason is the
// peer-supplied close reason, overridden by any reason recorded via Close.
func (s *Socket) HandleClosed(reason string) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.reason != "" {
			reason = s.reason
		}
		fn := s.onClose
		s.mu.Unlock()

		if fn != nil {
			fn(reason)
		}
	})
}

// Alive reports whether a liveness acknowledgment arrived since the flag was
// last cleared.
func (s *Socket) Alive() bool { return s.alive.Load() }

// SetAlive sets the liveness flag.
func (s *Socket) SetAlive(v bool) { s.alive.Store(v) }

// Ping probes the peer's transport.
func (s *Socket) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}
