package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by middleware.WebSocketCORSCheck
	},
}

// Client is a connected trajectory viewer. Viewers are read-only: they
// receive complete shot results and never send game input.
type Client struct {
	conn *websocket.Conn
	bay  string
	send chan []byte
}

// Hub maintains the viewer rooms, one per bay.
type Hub struct {
	rooms      map[string]map[*Client]struct{} // bay name -> clients
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// BayHub is the single hub for all bays.
var BayHub *Hub

func init() {
	BayHub = NewHub()
	go BayHub.run()
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.rooms[client.bay]; !exists {
				h.rooms[client.bay] = make(map[*Client]struct{})
			}
			h.rooms[client.bay][client] = struct{}{}
			size := len(h.rooms[client.bay])
			h.mu.Unlock()
			log.Printf("[WS] Viewer joined bay %s (room_size=%d)", client.bay, size)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.bay]; exists {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.bay)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("[WS] Viewer left bay %s", client.bay)
		}
	}
}

// BroadcastToBay sends a message to all viewers watching a bay. Each shot is
// sent as one complete message; viewers replay the trajectory at their own
// pacing.
func (h *Hub) BroadcastToBay(bay string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[bay] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			log.Printf("[WS] Viewer send buffer full in bay %s, dropping message", bay)
		}
	}
}

// HandleViewerWS upgrades a viewer connection for the given bay.
func HandleViewerWS(c *gin.Context) {
	bay := c.Param("bay")
	if bay == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bay required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		bay:  bay,
		send: make(chan []byte, 256),
	}

	BayHub.register <- client

	go client.writePump()
	go client.readPump()
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed — connection is being cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error in bay %s: %v", c.bay, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pings/pongs and close frames are
// processed; viewer messages themselves are discarded.
func (c *Client) readPump() {
	defer func() {
		BayHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
