package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"alert_relay/internal/domain"
	"alert_relay/internal/infra"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second

	// clientBuffer is the per-client frame backlog. A client that cannot
	// drain it is dropped; the relay path never waits for stream readers.
	clientBuffer = 16
)

// StreamEvent is one frame of the live alert stream.
type StreamEvent struct {
	ReceivedAt   time.Time            `json:"received_at"`
	Summary      string               `json:"summary,omitempty"`
	Envelope     domain.AlertEnvelope `json:"envelope,omitempty"`
	Outcome      string               `json:"outcome"`
	RemoteStatus int                  `json:"remote_status,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// Hub fans accepted alerts out to connected WebSocket clients.
type Hub struct {
	metrics *infra.Metrics

	mu      sync.Mutex
	clients map[*streamClient]struct{}

	upgrader websocket.Upgrader
}

type streamClient struct {
	conn *websocket.Conn
	send chan StreamEvent
}

// NewHub creates an empty stream hub.
func NewHub(metrics *infra.Metrics) *Hub {
	return &Hub{
		metrics: metrics,
		clients: make(map[*streamClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream is read-only telemetry, same trust level as /api/stats
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Broadcast queues an event to every connected client. Never blocks: clients
// with a full backlog are disconnected.
func (h *Hub) Broadcast(ev StreamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			delete(h.clients, c)
			close(c.send)
			h.metrics.DecrementStreamClients()
			slog.Warn("Dropping slow stream client")
		}
	}
}

// ServeHTTP upgrades the request and attaches the client to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Stream upgrade failed", slog.Any("error", err))
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan StreamEvent, clientBuffer),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.metrics.IncrementStreamClients()
	slog.Info("Stream client connected", slog.String("remote", r.RemoteAddr))

	go h.writeLoop(client)
	go h.readLoop(client)
}

// writeLoop pushes frames and keepalive pings until the client goes away.
func (h *Hub) writeLoop(c *streamClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				h.detach(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.detach(c)
				return
			}
		}
	}
}

// readLoop drains inbound frames; the stream is one-way but reads are needed
// to process pongs and close frames.
func (h *Hub) readLoop(c *streamClient) {
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.detach(c)
			c.conn.Close()
			return
		}
	}
}

// detach removes a client if it is still attached.
func (h *Hub) detach(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.metrics.DecrementStreamClients()
	}
}

// CloseAll disconnects every client, used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		h.metrics.DecrementStreamClients()
	}
}
