// Package signal is the WebSocket adapter: it owns the transport endpoints,
// decodes inbound events and emits outbound ones. All state decisions live
// in the orchestrator.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Presence/internal/app/orch"
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Orch *orch.Orchestrator

	readLimit  int64
	pingPeriod time.Duration
	limiter    *UpdateRateLimiter
}

func NewController(o *orch.Orchestrator, readLimit int64, pingPeriod time.Duration) *Controller {
	return &Controller{
		Orch:       o,
		readLimit:  readLimit,
		pingPeriod: pingPeriod,
		limiter:    NewUpdateRateLimiter(60, time.Second),
	}
}

type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
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

// HandlePresence upgrades the connection and binds a session. The trusted
// flag is read once here from the gin context and frozen into the peer; the
// update path never re-derives it.
func (ctl *Controller) HandlePresence(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	trusted := c.GetBool("trusted")
	log.Info().Str("module", "signal").Str("sid", string(sid)).Bool("trusted", trusted).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	peer := domain.NewPeer(domain.PeerID(sid), trusted)
	sess := core.NewMemberSession(peer).UpdateSignal(conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.Bind(sid, sess, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}

// broadcastTo fans an event out to members, skipping exclude. Closed or slow
// receivers are dropped silently; a lost event self-corrects on the next
// tick.
func (ctl *Controller) broadcastTo(members []core.SessionID, exclude core.SessionID, v any) {
	for _, sid := range members {
		if sid == exclude {
			continue
		}
		if sess, ok := ctl.Orch.Registry.GetSession(sid); ok {
			ctl.sendJSON(sess.Signal(), v)
		}
	}
}
