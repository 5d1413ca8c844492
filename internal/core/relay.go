package core

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/beamshare/relay/internal/proto"
)

// Relay binds accepted sockets to rooms and drives the message-kind handlers.
// It tracks every accepted socket, joined or not, for the liveness sweep.
type Relay struct {
	reg         *Registry
	maxFileSize int64
	log         *zerolog.Logger

	mu    sync.Mutex
	conns map[*Socket]struct{}
}

// NewRelay constructs a relay over reg. Transfer inits declaring more than
// maxFileSize bytes are dropped.
func NewRelay(reg *Registry, maxFileSize int64, logger *zerolog.Logger) *Relay {
	return &Relay{
		reg:         reg,
		maxFileSize: maxFileSize,
		log:         logger,
		conns:       make(map[*Socket]struct{}),
	}
}

// Bind wires the protocol handlers onto s and starts tracking it for the
// sweep. The socket stays unassociated with any room until its join message
// is processed.
func (rl *Relay) Bind(s *Socket) {
	rl.mu.Lock()
	rl.conns[s] = struct{}{}
	rl.mu.Unlock()

	s.Listen(proto.KindJoin, func(data json.RawMessage) { rl.handleJoin(s, data) })
	s.Listen(proto.KindFileInit, func(data json.RawMessage) { rl.handleFileInit(s, data) })
	s.Listen(proto.KindFileStatus, func(data json.RawMessage) { rl.handleFileStatus(s, data) })
	s.Listen(proto.KindChunk, func(data json.RawMessage) { rl.handleChunk(s, data) })
	s.Listen(proto.KindFileTorrent, func(data json.RawMessage) { rl.handleFileTorrent(s, data) })
	s.OnClose(func(reason string) { rl.handleClose(s, reason) })
}

func (rl *Relay) handleJoin(s *Socket, data json.RawMessage) {
	var join proto.JoinData
	if err := json.Unmarshal(data, &join); err != nil || join.Name == "" {
		rl.log.Debug().Err(err).Str("socket", s.ID).Msg("malformed join, dropping")
		return
	}

	roomName := join.RoomName
	if roomName == "" {
		roomName = s.IP
	}

	rl.reg.mu.Lock()
	if s.room != nil {
		// Already joined; identity is immutable after the first join.
		rl.reg.mu.Unlock()
		return
	}
	room := rl.reg.rooms[roomName]
	if room != nil && room.SocketByName(join.Name) != nil {
		rl.reg.mu.Unlock()
		rl.log.Info().Str("name", join.Name).Str("room", roomName).Msg("rejecting duplicate name")
		s.Close(proto.ReasonDuplicateName)
		return
	}
	if room == nil {
		room = rl.reg.getOrCreate(roomName)
	}

	s.Name = join.Name
	s.PeerID = join.PeerID
	s.room = room
	room.AddSocket(s)
	room.Broadcast(proto.KindUserJoin, room.MemberNames())
	room.InformWatchers()
	rl.reg.mu.Unlock()

	rl.log.Info().Str("name", join.Name).Str("room", roomName).Msg("peer joined")
}

func (rl *Relay) handleClose(s *Socket, reason string) {
	rl.mu.Lock()
	delete(rl.conns, s)
	rl.mu.Unlock()

	// A duplicate-name rejection never attached the socket to its room; the
	// holder of the name must stay untouched.
	if reason == proto.ReasonDuplicateName {
		return
	}

	rl.reg.mu.Lock()
	room := s.room
	if room == nil {
		rl.reg.mu.Unlock()
		return
	}
	s.room = nil
	room.RemoveSocket(s)
	if len(room.sockets) > 0 {
		room.Broadcast(proto.KindUserLeave, s.Name, s)
	}
	room.InformWatchers()
	rl.reg.reap(room)
	rl.reg.mu.Unlock()

	rl.log.Info().Str("name", s.Name).Str("room", room.Name).Msg("peer left")
}

func (rl *Relay) handleFileInit(s *Socket, data json.RawMessage) {
	var init proto.FileInitData
	if err := json.Unmarshal(data, &init); err != nil {
		rl.log.Debug().Err(err).Str("socket", s.ID).Msg("malformed file init, dropping")
		return
	}

	rl.reg.mu.Lock()
	room := s.room
	if room == nil {
		rl.reg.mu.Unlock()
		return
	}
	if init.Size > rl.maxFileSize {
		rl.reg.mu.Unlock()
		// The initiator gets no feedback; the transfer simply never
		// starts on the receiving side.
		rl.log.Warn().Str("name", s.Name).Int64("size", init.Size).Msg("transfer exceeds size limit, dropping")
		return
	}
	room.SetSender(s)
	room.Broadcast(proto.KindFileInit, data, s)
	rl.reg.mu.Unlock()

	if init.End {
		rl.log.Info().Str("room", room.Name).Msg("file transfer finished")
	} else {
		rl.log.Info().Str("name", s.Name).Str("room", room.Name).Msg("file transfer initiated")
	}
}

func (rl *Relay) handleFileStatus(s *Socket, data json.RawMessage) {
	rl.reg.mu.Lock()
	room := s.room
	if room == nil {
		rl.reg.mu.Unlock()
		return
	}
	sender := room.Sender()
	rl.reg.mu.Unlock()

	// Sender already gone: the status update has no recipient.
	if sender == nil {
		return
	}
	_ = sender.Send(proto.KindFileStatus, data)
}

func (rl *Relay) handleChunk(s *Socket, data json.RawMessage) {
	rl.reg.mu.Lock()
	if room := s.room; room != nil {
		// Exclusion is keyed on the recorded sender, not on the chunk's
		// origin.
		room.Broadcast(proto.KindChunk, data, room.Sender())
	}
	rl.reg.mu.Unlock()
}

func (rl *Relay) handleFileTorrent(s *Socket, data json.RawMessage) {
	rl.reg.mu.Lock()
	if room := s.room; room != nil {
		room.Broadcast(proto.KindFileTorrent, data, s)
	}
	rl.reg.mu.Unlock()
}
