package network

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ClientID uniquely identifies a connected viewer
type ClientID uint32

type outbound struct {
	kind int // websocket.BinaryMessage or websocket.TextMessage
	data []byte
}

// client is one websocket viewer
// Only writeLoop writes to conn, so gorilla's single-writer rule holds
type client struct {
	id     ClientID
	addr   string
	format Format
	conn   *websocket.Conn

	sendCh  chan outbound
	dropped atomic.Uint64

	closeCh   chan struct{}
	closeOnce sync.Once
}

func newClient(id ClientID, conn *websocket.Conn, format Format, queueSize int) *client {
	return &client{
		id:      id,
		addr:    conn.RemoteAddr().String(),
		format:  format,
		conn:    conn,
		sendCh:  make(chan outbound, queueSize),
		closeCh: make(chan struct{}),
	}
}

// send queues a message, returns false when the queue is full or the client closed
// Slow viewers lose frames rather than stall the simulation
func (c *client) send(data []byte) bool {
	select {
	case <-c.closeCh:
		return false
	default:
	}

	kind := websocket.BinaryMessage
	if c.format == FormatJSON {
		kind = websocket.TextMessage
	}

	select {
	case c.sendCh <- outbound{kind: kind, data: data}:
		return true
	default:
		c.dropped.Add(1)
		return false
	}
}

// close signals writeLoop, which sends the close frame and releases conn
func (c *client) close() {
	c.closeOnce.Do(func() { close(c.closeCh) })
}

// readLoop drains viewer messages and enforces the read deadline
// Pongs extend the deadline, anything else is ignored
func (c *client) readLoop(cfg *Config) {
	defer c.close()

	c.conn.SetReadLimit(int64(cfg.ReadBufferSize))
	c.conn.SetReadDeadline(time.Now().Add(cfg.ReadDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.ReadDeadline))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[NET] client %d read: %v", c.id, err)
			}
			return
		}
	}
}

// writeLoop sends queued messages and periodic pings
func (c *client) writeLoop(cfg *Config) {
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.closeCh:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(cfg.WriteTimeout))
			return
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
				log.Printf("[NET] client %d write: %v", c.id, err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(cfg.WriteTimeout)); err != nil {
				return
			}
		}
	}
}
