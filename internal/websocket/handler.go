// Package websocket adapts the gorilla/websocket transport to the hub's
// event surface. It owns connection identity, socket liveness, and the
// decoding of inbound event envelopes; all chat semantics live in the hub.
package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"hckrchat/internal/hub"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	// Origin checking is a deployment concern; the reverse proxy in front
	// of this server restricts origins in production.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 10 * time.Second,
}

// Inbound event types.
const (
	inboundJoin    = "join"
	inboundMessage = "message"
	inboundTyping  = "typing"
)

type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinData struct {
	Username string `json:"username"`
}

type messageData struct {
	Message string `json:"message"`
}

type typingData struct {
	Typing bool `json:"typing"`
}

// Handler upgrades HTTP requests and pumps inbound events into the hub.
type Handler struct {
	hub *hub.Hub
}

// NewHandler creates a WebSocket handler bound to the given hub.
func NewHandler(h *hub.Hub) *Handler {
	return &Handler{hub: h}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConnection(wsConn)
	h.hub.HandleConnect(conn.ID(), conn)

	go h.readPump(conn)
}

// readPump reads inbound events for one connection. Cleanup runs on every
// exit path so a dropped connection never leaves orphaned session or
// typing state behind.
func (h *Handler) readPump(conn *Connection) {
	defer func() {
		h.hub.HandleDisconnect(conn.ID())
		_ = conn.Close()
	}()

	if err := conn.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(conn)

	for {
		messageType, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read failed", "conn", conn.ID(), "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		h.dispatch(conn, data)
	}
}

// dispatch decodes one inbound envelope. Unknown event types and malformed
// payloads are ignored rather than killing the connection.
func (h *Handler) dispatch(conn *Connection, data []byte) {
	var ev inboundEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.Debug("malformed inbound event", "conn", conn.ID(), "error", err)
		return
	}

	switch ev.Type {
	case inboundJoin:
		var d joinData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			slog.Debug("malformed join payload", "conn", conn.ID(), "error", err)
			return
		}
		h.hub.HandleJoin(conn.Context(), conn.ID(), d.Username)

	case inboundMessage:
		var d messageData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			slog.Debug("malformed message payload", "conn", conn.ID(), "error", err)
			return
		}
		h.hub.HandleMessage(conn.Context(), conn.ID(), d.Message)

	case inboundTyping:
		var d typingData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			slog.Debug("malformed typing payload", "conn", conn.ID(), "error", err)
			return
		}
		h.hub.HandleTyping(conn.ID(), d.Typing)

	default:
		slog.Debug("unknown inbound event", "conn", conn.ID(), "type", ev.Type)
	}
}

func (h *Handler) pingLoop(conn *Connection) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-conn.Context().Done():
			return
		}
	}
}
