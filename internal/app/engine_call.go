package app

import (
	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// StartCall opens (or re-announces) the video call in the caller's room.
func (e *Engine) StartCall(id domain.ConnectionID, rawRoom string) error {
	roomID := domain.NormalizeRoomID(rawRoom)
	room, ok := e.Rooms.Get(roomID)
	if !ok {
		return core.ErrNotInRoom
	}
	return room.StartCall(id, e.timestamp())
}

// JoinCall adds the caller to the room's running call.
func (e *Engine) JoinCall(id domain.ConnectionID, rawRoom string) error {
	roomID := domain.NormalizeRoomID(rawRoom)
	room, ok := e.Rooms.Get(roomID)
	if !ok {
		return core.ErrNotInRoom
	}
	return room.JoinCall(id, e.timestamp())
}

// LeaveCall is idempotent: a connection outside the call, the room or
// even the room map is a silent no-op.
func (e *Engine) LeaveCall(id domain.ConnectionID, rawRoom string) {
	roomID := domain.NormalizeRoomID(rawRoom)
	if room, ok := e.Rooms.Get(roomID); ok {
		room.LeaveCall(id, e.timestamp())
	}
}
