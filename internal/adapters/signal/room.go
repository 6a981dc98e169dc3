package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

func (ctl *Controller) handleCreateRoom(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.CreateRoomRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create_room payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	roomID := ctl.Engine.CreateRoom(id, p.Username)
	_ = conn.TrySend(protocol.RoomCreated{RoomID: roomID})
}

func (ctl *Controller) handleJoinRoom(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.JoinRoomRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join_room payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	if err := ctl.Engine.Join(id, p.RoomID, p.Username); err != nil {
		ctl.sendError(conn, err)
	}
}

// handleLeaveRoom leaves the current room; the connection itself stays
// up. The payload's room_id is informational: membership is keyed by
// connection and a connection sits in at most one room.
func (ctl *Controller) handleLeaveRoom(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.LeaveRoomRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave_room payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	if roomID, ok := ctl.Engine.Leave(id); ok {
		_ = conn.TrySend(protocol.LeftRoom{RoomID: roomID})
	}
}
