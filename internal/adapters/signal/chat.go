package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

func (ctl *Controller) handleSendMessage(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.SendMessageRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad send_message payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	if err := ctl.Engine.SendText(id, p.RoomID, p.Message); err != nil {
		ctl.sendError(conn, err)
	}
}

func (ctl *Controller) handleSendVoiceNote(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p protocol.SendVoiceNoteRequest
	if err := ctl.decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad send_voice_note payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	if err := ctl.Engine.SendVoice(id, p.RoomID, p.Audio, p.Duration); err != nil {
		ctl.sendError(conn, err)
	}
}
