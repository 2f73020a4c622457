package fanout

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/charleschow/matchday/internal/telemetry"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type spectator struct {
	matchID string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
}

// Hub fans out a running match's frames to any number of read-only
// WebSocket spectators. Spectators never influence the simulation.
type Hub struct {
	mu      sync.Mutex
	clients map[*spectator]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*spectator]struct{}),
	}
}

// Broadcast is called on the publisher's goroutine. It wraps the frame in
// an envelope and enqueues it to matching spectators (non-blocking).
func (h *Hub) Broadcast(matchID, frameName string, data json.RawMessage) {
	msg, err := MarshalFrame(matchID, frameName, data)
	if err != nil {
		telemetry.Warnf("fanout: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if c.matchID != matchID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			telemetry.Warnf("fanout: dropping frame for slow spectator match=%s", matchID)
		}
	}
}

// HandleWS upgrades a spectator connection for one match.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, matchID string) {
	if matchID == "" {
		http.Error(w, "missing match id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("fanout: upgrade failed: %v", err)
		return
	}

	c := &spectator{
		matchID: matchID,
		conn:    conn,
		send:    make(chan []byte, clientSendBuf),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	telemetry.Metrics.FanoutClients.Inc()

	telemetry.Debugf("fanout: spectator joined match=%s", matchID)

	go h.writePump(c)
	go h.readPump(c)
}

// writePump drains the spectator's send channel and writes to the WS
// connection. It owns the client lifecycle: on exit it removes the client
// from the map (so Broadcast never sends to a stale channel) and closes
// the connection.
func (h *Hub) writePump(c *spectator) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Debugf("fanout: write error match=%s: %v", c.matchID, err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive by reading pongs / close frames.
// Spectators send nothing upstream. On exit it signals writePump via
// c.done (never closes c.send).
func (h *Hub) readPump(c *spectator) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(c *spectator) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	telemetry.Metrics.FanoutClients.Dec()
	telemetry.Debugf("fanout: spectator left match=%s", c.matchID)
}
