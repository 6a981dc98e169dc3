package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/app"
	"github.com/dkeye/Parley/internal/config"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/protocol"
)

var (
	ErrBackpressure = errors.New("backpressure")

	errBadPayload = errors.New("bad payload")
)

// Controller owns the websocket surface: upgrade, pumps and dispatch.
// Everything behind it goes through the engine.
type Controller struct {
	Engine *app.Engine
	Cfg    *config.Config

	validate *validator.Validate
}

func NewController(engine *app.Engine, cfg *config.Config) *Controller {
	return &Controller{Engine: engine, Cfg: cfg, validate: validator.New()}
}

// WsSignalConn adapts one websocket to core.SignalConn. Events are
// encoded on the caller's goroutine and enqueued; only the write pump
// touches the socket for data frames.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{conn: ws, send: make(chan []byte, buffer)}
}

func (c *WsSignalConn) TrySend(ev protocol.Event) error {
	b, err := protocol.Encode(ev)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection's pumps.
// Each socket gets a fresh connection id rather than the session's
// client token: the id doubles as the peer id for call signaling, and
// two tabs of one browser session must stay addressable separately.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	id := domain.ConnectionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("token", c.GetString("client_token")).Msg("new WS connection")

	conn := newWsSignalConn(ws, ctl.Cfg.SendBuffer)
	ctl.Engine.Connect(id, conn)
	_ = conn.TrySend(protocol.Connected{ConnectionID: id})

	go ctl.writePump(ctx, id, conn)
	go ctl.readPump(ctx, id, conn)
}

func (ctl *Controller) sendError(c *WsSignalConn, err error) {
	_ = c.TrySend(protocol.ErrorEvent{Message: err.Error()})
}
