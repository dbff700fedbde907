package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hckrchat/internal/hub"
)

const (
	writeWait      = 5 * time.Second
	sendBufferSize = 100
)

// Connection wraps a WebSocket connection with a buffered single-writer
// goroutine so concurrent unicast and broadcast sends never race on the
// socket and a slow peer never blocks the hub.
type Connection struct {
	id        string
	conn      *websocket.Conn
	writeCh   chan []byte
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps conn and assigns it a fresh connection identity.
// Identities are never reused; a reconnecting client is a new connection.
func NewConnection(conn *websocket.Conn) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		id:      uuid.New().String(),
		conn:    conn,
		writeCh: make(chan []byte, sendBufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	go c.writeLoop()

	return c
}

// ID returns the opaque connection identity.
func (c *Connection) ID() string {
	return c.id
}

// Context is cancelled when the connection closes.
func (c *Connection) Context() context.Context {
	return c.ctx
}

func (c *Connection) writeLoop() {
	for {
		select {
		case data := <-c.writeCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// Send enqueues an outbound event without blocking. Events to a closed
// connection or past a full buffer are dropped; delivery is best-effort.
func (c *Connection) Send(ev hub.Event) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case c.writeCh <- data:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		return ErrSendBufferFull
	}
}

// Close shuts down the write loop and the underlying socket. Idempotent.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}
