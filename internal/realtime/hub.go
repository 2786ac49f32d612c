package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/logging"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
	maxMessageSize = 512
)

// client is one websocket session subscribed to a room.
type client struct {
	hub    *Hub
	roomID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans match updates out to the sessions of each room. Sessions only
// listen; all writes go through the HTTP API.
type Hub struct {
	mu           sync.Mutex
	rooms        map[string]map[*client]struct{}
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

// NewHub returns a hub that pings idle sessions every pingInterval.
// allowedOrigins limits the browser origins allowed to subscribe; "*"
// allows any.
func NewHub(pingInterval time.Duration, allowedOrigins []string) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	h := &Hub{
		rooms:        make(map[string]map[*client]struct{}),
		pingInterval: pingInterval,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// Serve upgrades the request and subscribes the session to roomID. initial,
// when not nil, is sent before any published update.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, roomID string, initial []byte) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{hub: h, roomID: roomID, conn: conn, send: make(chan []byte, sendBufferSize)}
	if initial != nil {
		c.send <- initial
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[c.roomID]
	if !ok {
		set = make(map[*client]struct{})
		h.rooms[c.roomID] = set
	}
	set[c] = struct{}{}
	logging.Debug("session subscribed", logging.Fields{constants.LogFieldRoomID: c.roomID, "sessions": len(set)})
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	set, ok := h.rooms[c.roomID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.rooms, c.roomID)
	}
}

// Publish queues payload for every session of roomID. Sessions whose
// buffer is full are dropped; they reconnect and receive a fresh state.
func (h *Hub) Publish(roomID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[roomID] {
		select {
		case c.send <- payload:
		default:
			logging.Warn("dropping slow session", logging.Fields{constants.LogFieldRoomID: roomID})
			h.dropLocked(c)
		}
	}
}

// Subscribers returns the number of sessions listening to roomID.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	pongWait := c.hub.pingInterval * 2
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn("websocket closed unexpectedly", logging.Fields{constants.LogFieldRoomID: c.roomID, "error": err.Error()})
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
