package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/metrics"
)

// timeLayout is the minute-resolution stamp history entries and
// presence events carry.
const timeLayout = "15:04"

// Engine coordinates the registry, the room map and point-to-point
// relay for every inbound operation. One Engine serves the whole
// process; all methods are safe for concurrent use.
type Engine struct {
	Registry *Registry
	Rooms    *RoomManager
	Policy   Policy

	// Now supplies timestamps. Nil means time.Now.
	Now func() time.Time
}

func (e *Engine) timestamp() string {
	if e.Now != nil {
		return e.Now().Format(timeLayout)
	}
	return time.Now().Format(timeLayout)
}

// Connect registers a fresh connection. The transport calls this once
// per socket, before any other operation for that connection.
func (e *Engine) Connect(id domain.ConnectionID, conn core.SignalConn) {
	e.Registry.Bind(id, conn)
	metrics.WsConnections.Inc()
}

// Disconnect tears a connection down: implicit leave of its room with
// full call pruning, then unregistration. Safe to call more than once.
func (e *Engine) Disconnect(id domain.ConnectionID) {
	e.leaveCurrentRoom(id)
	if e.Registry.Unbind(id) {
		metrics.WsConnections.Dec()
	}
}

// applyBackpressure runs the policy over consumers a fan-out dropped.
// Kicking closes the transport; the read loop then funnels the kicked
// connection through Disconnect like any other hangup.
func (e *Engine) applyBackpressure(room domain.RoomID, res core.PublishResult) {
	if len(res.Dropped) > 0 {
		metrics.FanoutDroppedTotal.Add(float64(len(res.Dropped)))
	}
	if e.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch e.Policy.OnBackPressure(room, slow) {
		case KickMember:
			if conn, ok := e.Registry.Lookup(slow); ok {
				log.Warn().Str("module", "app.engine").Str("conn", string(slow)).Str("room", string(room)).Msg("kicking slow consumer")
				conn.Close()
			}
		case MarkSlow, DropFrame, NoAction:
		}
	}
}
