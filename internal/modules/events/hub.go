// Package events pushes reservation lifecycle changes to connected clients
// over websockets, so open calendars refresh without polling.
package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"venuebook/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Event is a reservation change pushed to clients.
type Event struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	SpaceID       int64     `json:"space_id"`
	Status        string    `json:"status"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

const EventReservationChanged = "reservation_changed"

type connection struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans reservation events out to every connected client. It implements
// the EventSink port of the booking and recurring services.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]bool
}

func NewHub() *Hub {
	return &Hub{connections: make(map[*connection]bool)}
}

// ReservationChanged broadcasts the reservation's new state. Slow clients are
// skipped rather than blocking the caller.
func (h *Hub) ReservationChanged(r *domain.Reservation) {
	data, err := json.Marshal(Event{
		Type:          EventReservationChanged,
		ReservationID: r.ID,
		SpaceID:       r.SpaceID,
		Status:        string(r.Status),
		Start:         r.StartTime,
		End:           r.EndTime,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c] {
		delete(h.connections, c)
		close(c.send)
	}
}

// ServeWS upgrades the request and pumps events until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{conn: ws, send: make(chan []byte, 64)}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Clients only listen; any read error means disconnect.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
