package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

func (ctl *Controller) handleStartVideoCall(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.CallRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad start_video_call payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	if err := ctl.Engine.StartCall(id, p.RoomID); err != nil {
		ctl.sendError(conn, err)
	}
}

func (ctl *Controller) handleJoinVideoCall(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.CallRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join_video_call payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	if err := ctl.Engine.JoinCall(id, p.RoomID); err != nil {
		ctl.sendError(conn, err)
	}
}

func (ctl *Controller) handleLeaveVideoCall(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.CallRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave_video_call payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	ctl.Engine.LeaveCall(id, p.RoomID)
}
