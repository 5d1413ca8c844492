package proto

import "encoding/json"

// Message kinds carried on the wire. Apart from join, every kind is relayed
// opaquely between peers of a room.
const (
	KindJoin        = "join"
	KindUserJoin    = "user-join"
	KindUserLeave   = "user-leave"
	KindFileInit    = "file-init"
	KindFileStatus  = "file-status"
	KindChunk       = "chunk"
	KindFileTorrent = "file-torrent"
)

// ReasonDuplicateName is the reserved close reason sent when a join names a
// display name already held in the target room. Clients match on this string
// to distinguish the rejection from an ordinary disconnect.
const ReasonDuplicateName = "ERR_SAME_NAME"

// Inbound is the envelope for frames coming from a peer.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for frames sent to a peer.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// JoinData requests attachment to a room. RoomName defaults to the caller's
// network address when empty.
type JoinData struct {
	RoomName string `json:"roomName,omitempty"`
	Name     string `json:"name"`
	PeerID   string `json:"peerId"`
}

// FileInitData carries only the fields the relay inspects. The full raw
// payload is what gets forwarded to the other room members.
type FileInitData struct {
	Size int64 `json:"size"`
	End  bool  `json:"end,omitempty"`
}
