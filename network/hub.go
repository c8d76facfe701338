// Package network streams simulation frames to websocket viewers
package network

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// ErrHubFull is returned to viewers over the client limit
var ErrHubFull = errors.New("viewer limit reached")

// Hub tracks connected viewers and fans frames out to them
type Hub struct {
	config   *Config
	upgrader websocket.Upgrader
	hello    Hello

	mu      sync.RWMutex
	clients map[ClientID]*client
	nextID  atomic.Uint32

	closed atomic.Bool
	sent   atomic.Uint64
}

// NewHub creates a hub, hello is sent to each viewer on connect
func NewHub(cfg *Config, hello Hello) *Hub {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	hello.Type = MsgHello
	return &Hub{
		config: cfg,
		hello:  hello,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// Viewers are local pages or tools, allow any origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[ClientID]*client),
	}
}

// Handler serves the viewer page on / and the stream on /ws
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", servePage)
	mux.HandleFunc("/ws", h.ServeWS)
	return mux
}

// ServeWS upgrades a request and registers the viewer
// The format query parameter picks json or msgpack
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if h.ClientCount() >= h.config.MaxClients {
		http.Error(w, ErrHubFull.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[NET] upgrade: %v", err)
		return
	}

	format := ParseFormat(r.URL.Query().Get("format"), h.config.Format)
	c := newClient(ClientID(h.nextID.Add(1)), conn, format, h.config.SendQueueSize)

	// Hello is queued before registration so it always precedes the first frame
	if data, err := Encode(format, h.hello); err == nil {
		c.send(data)
	}
	if err := h.add(c); err != nil {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		conn.Close()
		return
	}

	go c.writeLoop(h.config)
	go func() {
		c.readLoop(h.config)
		h.remove(c.id)
	}()
}

// add registers a client, the limit is rechecked under the lock
func (h *Hub) add(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed.Load() || len(h.clients) >= h.config.MaxClients {
		return ErrHubFull
	}
	h.clients[c.id] = c
	log.Printf("[NET] client %d connected from %s (%s)", c.id, c.addr, c.format)
	return nil
}

func (h *Hub) remove(id ClientID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()

	if ok {
		log.Printf("[NET] client %d disconnected, %d frames dropped", id, c.dropped.Load())
	}
}

// ShouldSend reports whether frame is on the broadcast cadence
func (h *Hub) ShouldSend(frame uint64) bool {
	n := uint64(max(h.config.SendEveryN, 1))
	return frame%n == 0
}

// Publish broadcasts f to every viewer when it is on the cadence
// Each format is encoded at most once, returns the number of viewers queued
func (h *Hub) Publish(f *Frame) int {
	if h.closed.Load() || !h.ShouldSend(f.Frame) {
		return 0
	}
	f.Type = MsgFrame

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return 0
	}

	var encoded [2][]byte
	queued := 0
	for _, c := range h.clients {
		data := encoded[c.format]
		if data == nil {
			var err error
			if data, err = Encode(c.format, f); err != nil {
				log.Printf("[NET] %v", err)
				return queued
			}
			encoded[c.format] = data
		}
		if c.send(data) {
			queued++
		}
	}
	h.sent.Add(1)
	return queued
}

// ClientCount returns the number of connected viewers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FramesSent counts broadcasts that reached at least the encode step
func (h *Hub) FramesSent() uint64 {
	return h.sent.Load()
}

// Close disconnects every viewer and rejects new ones
func (h *Hub) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}
