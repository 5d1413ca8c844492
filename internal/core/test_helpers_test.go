package core

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/beamshare/relay/internal/proto"
)

// fakeConn records frames instead of touching a network.
type fakeConn struct {
	ip      string
	pingErr error

	mu          sync.Mutex
	sent        []sentFrame
	closed      bool
	closeReason string
	terminated  bool
}

type sentFrame struct {
	kind    string
	payload any
}

func (f *fakeConn) Send(kind string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentFrame{kind: kind, payload: payload})
	return nil
}

func (f *fakeConn) Close(reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.closeReason = reason
	return nil
}

func (f *fakeConn) Terminate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = true
}

func (f *fakeConn) Ping(context.Context) error { return f.pingErr }

func (f *fakeConn) RemoteIP() string {
	if f.ip == "" {
		return "127.0.0.1"
	}
	return f.ip
}

// frames returns the recorded frames of one kind.
func (f *fakeConn) frames(kind string) []sentFrame {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []sentFrame
	for _, fr := range f.sent {
		if fr.kind == kind {
			out = append(out, fr)
		}
	}
	return out
}

func (f *fakeConn) isTerminated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminated
}

func newTestRelay(maxFileSize int64) (*Relay, *Registry) {
	logger := zerolog.Nop()
	reg := NewRegistry()
	return NewRelay(reg, maxFileSize, &logger), reg
}

// accept wraps a fresh fake transport and binds it to the relay, mirroring
// what the websocket handler does on upgrade.
func accept(rl *Relay, id string) (*Socket, *fakeConn) {
	fc := &fakeConn{}
	s := NewSocket(id, fc)
	rl.Bind(s)
	return s, fc
}

func join(t *testing.T, s *Socket, room, name string) {
	t.Helper()

	data, err := json.Marshal(proto.JoinData{RoomName: room, Name: name, PeerID: name + "-peer"})
	if err != nil {
		t.Fatalf("marshal join: %v", err)
	}
	s.Dispatch(proto.KindJoin, data)
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}
