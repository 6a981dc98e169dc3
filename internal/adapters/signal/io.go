package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

func (ctl *Controller) writePump(ctx context.Context, id domain.ConnectionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(id)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, id domain.ConnectionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump closing")
		ctl.Engine.Disconnect(id)
		c.Close()
	}()
	c.conn.SetReadLimit(ctl.Cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.Cfg.PongWait))
	})
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("readPump read error")
				return
			}
			ctl.dispatch(id, c, data)
		}
	}
}

// dispatch routes one inbound frame. A panicking handler faults only
// this frame: the connection, its room and every other member carry on.
func (ctl *Controller) dispatch(id domain.ConnectionID, c *WsSignalConn, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("conn", string(id)).Interface("panic", r).Msg("handler panic")
			ctl.sendError(c, errors.New("internal error"))
		}
	}()
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad json")
		ctl.sendError(c, errBadPayload)
		return
	}
	switch env.Type {
	case protocol.EventCreateRoom:
		ctl.handleCreateRoom(id, c, env.Data)
	case protocol.EventJoinRoom:
		ctl.handleJoinRoom(id, c, env.Data)
	case protocol.EventLeaveRoom:
		ctl.handleLeaveRoom(id, c, env.Data)
	case protocol.EventSendMessage:
		ctl.handleSendMessage(id, c, env.Data)
	case protocol.EventSendVoiceNote:
		ctl.handleSendVoiceNote(id, c, env.Data)
	case protocol.EventStartVideoCall:
		ctl.handleStartVideoCall(id, c, env.Data)
	case protocol.EventJoinVideoCall:
		ctl.handleJoinVideoCall(id, c, env.Data)
	case protocol.EventLeaveVideoCall:
		ctl.handleLeaveVideoCall(id, c, env.Data)
	case protocol.EventSignalingOffer:
		ctl.handleSignalingOffer(id, c, env.Data)
	case protocol.EventSignalingAnswer:
		ctl.handleSignalingAnswer(id, c, env.Data)
	case protocol.EventSignalingCandidate:
		ctl.handleSignalingCandidate(id, c, env.Data)
	case protocol.EventPing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendError(c, errors.New("unknown event type"))
	}
}

// decode unmarshals an event payload and runs its structural checks.
func (ctl *Controller) decode(data []byte, into any) error {
	if len(data) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, into); err != nil {
		return err
	}
	return ctl.validate.Struct(into)
}
