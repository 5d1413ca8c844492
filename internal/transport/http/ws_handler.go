package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/beamshare/relay/internal/config"
	"github.com/beamshare/relay/internal/core"
	"github.com/beamshare/relay/internal/proto"
)

// outboxSize bounds the per-connection send queue. Broadcast pushes past a
// full queue are dropped so one slow peer never stalls its room.
const outboxSize = 64

var errOutboxFull = errors.New("outbox full")

// wsConn adapts a coder/websocket connection to core.Conn. Frames are queued
// on the outbox and drained by a single writer goroutine.
type wsConn struct {
	conn *websocket.Conn
	ip   string

	outbox    chan proto.Outbound
	closeOnce sync.Once
}

func newWSConn(conn *websocket.Conn, ip string) *wsConn {
	return &wsConn{
		conn:   conn,
		ip:     ip,
		outbox: make(chan proto.Outbound, outboxSize),
	}
}

func (w *wsConn) Send(kind string, payload any) error {
	select {
	case w.outbox <- proto.Outbound{Type: kind, Data: payload}:
		return nil
	default:
		return errOutboxFull
	}
}

func (w *wsConn) Close(reason string) error {
	var err error
	w.closeOnce.Do(func() {
		err = w.conn.Close(websocket.StatusNormalClosure, reason)
	})
	return err
}

func (w *wsConn) Terminate() { _ = w.conn.CloseNow() }

func (w *wsConn) Ping(ctx context.Context) error { return w.conn.Ping(ctx) }

func (w *wsConn) RemoteIP() string { return w.ip }

// NewWSHandler upgrades requests into relay sockets, rejecting disallowed
// origins before any protocol interaction.
func NewWSHandler(relay *core.Relay, gate *originGate, cfg config.Config, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); !gate.allow(origin) {
			logger.Warn().Str("origin", origin).Msg("blocked upgrade from disallowed origin")
			c.AbortWithStatus(stdhttp.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			// Origin already checked against the configured allow-list.
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error().Err(err).Msg("ws accept")
			return
		}
		conn.SetReadLimit(cfg.MaxMessageSize)

		wc := newWSConn(conn, c.ClientIP())
		sock := core.NewSocket(uuid.NewString(), wc)
		relay.Bind(sock)

		logger.Debug().Str("socket", sock.ID).Str("ip", sock.IP).Msg("ws connection accepted")

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		go writeLoop(ctx, conn, wc, logger)

		err = readLoop(ctx, conn, sock)
		cancel()

		// Prefer the reason supplied in the peer's close frame; a reason
		// recorded by a server-side Close wins inside HandleClosed.
		var reason string
		var closeErr websocket.CloseError
		if errors.As(err, &closeErr) {
			reason = closeErr.Reason
		}

		wc.Terminate()
		sock.HandleClosed(reason)
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, sock *core.Socket) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}
		sock.Dispatch(inbound.Type, inbound.Data)
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, wc *wsConn, logger *zerolog.Logger) {
	for {
		select {
		case out := <-wc.outbox:
			if err := wsjson.Write(ctx, conn, out); err != nil {
				logger.Debug().Err(err).Msg("write ws frame")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
