package core

import (
	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

// SignalConn abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
// TrySend must never block: it enqueues or fails.
type SignalConn interface {
	TrySend(protocol.Event) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the engine.
type PublishResult struct {
	SendTo  int
	Dropped []domain.ConnectionID
}

// RoomInfo is a read-only view for APIs (no transport fields).
type RoomInfo struct {
	RoomID          domain.RoomID `json:"room_id"`
	MemberCount     int           `json:"member_count"`
	VideoCallActive bool          `json:"video_call_active"`
}
