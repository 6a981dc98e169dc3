package signal

import "github.com/dkeye/Parley/internal/protocol"

func (ctl *Controller) handlePing(
	conn *WsSignalConn,
) {
	_ = conn.TrySend(protocol.Pong{})
}
