package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ndrandal/stock-dashboard/internal/symbol"
	"github.com/ndrandal/stock-dashboard/internal/wire"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler creates the HTTP handler for WebSocket upgrades.
func Handler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := mgr.Register(conn)
		mgr.SendToClient(client, wire.SnapshotFrame(mgr.Dashboard().Snapshot()))

		go writePump(client)
		go readPump(client, mgr)
	}
}

// readPump processes incoming control messages from the client.
func readPump(c *Client, mgr *Manager) {
	defer mgr.Unregister(c)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("client", c.ID).Msg("read error")
			}
			return
		}

		ctrl, err := wire.DecodeControl(message)
		if err != nil {
			log.Debug().Err(err).Str("client", c.ID).Msg("invalid control message")
			mgr.SendToClient(c, wire.ErrorFrame("invalid message"))
			continue
		}

		handleControl(c, mgr, ctrl)
	}
}

// handleControl processes a parsed control message.
func handleControl(c *Client, mgr *Manager, ctrl wire.Control) {
	switch ctrl.Action {
	case wire.ActionSelect:
		err := mgr.Dashboard().SelectSymbol(ctrl.Symbol)
		switch {
		case errors.Is(err, symbol.ErrUnknownSymbol):
			mgr.SendToClient(c, wire.ErrorFrame("unknown symbol: "+ctrl.Symbol))
		case err != nil:
			mgr.SendToClient(c, wire.ErrorFrame(err.Error()))
		default:
			log.Info().Str("client", c.ID).Str("symbol", ctrl.Symbol).Msg("symbol selected")
		}

	case wire.ActionSnapshot:
		mgr.SendToClient(c, wire.SnapshotFrame(mgr.Dashboard().Snapshot()))

	default:
		log.Debug().Str("client", c.ID).Str("action", ctrl.Action).Msg("unknown action")
		mgr.SendToClient(c, wire.ErrorFrame("unknown action: "+ctrl.Action))
	}
}

// writePump sends queued frames to the WebSocket.
func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.SendCh():
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.Done():
			return
		}
	}
}
