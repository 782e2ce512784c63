package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playbinho/backend/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS middleware
	},
}

// Client represents one connected WebSocket client.
type Client struct {
	conn     *websocket.Conn
	connID   string
	roomCode string
	hub      *Hub
	coord    *game.Coordinator
	send     chan []byte
}

// Hub maintains the set of active clients and their room membership.
// It implements game.Notifier, so the core hands it every outbound
// payload and never touches a socket itself.
type Hub struct {
	clients    map[string]*Client            // connID -> Client
	rooms      map[string]map[string]*Client // roomCode -> connID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Broadcast sends a payload to every member of a room.
func (h *Hub) Broadcast(roomCode string, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] Error marshaling broadcast: %v", err)
		return
	}

	mirrorRoomEvent(roomCode, data)

	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, exists := h.rooms[roomCode]; exists {
		for _, client := range room {
			select {
			case client.send <- data:
			default:
				log.Printf("[WS] Send buffer full for conn %s in room %s, dropping message", client.connID, roomCode)
			}
		}
	}
}

// Send unicasts a payload to one connection.
func (h *Hub) Send(connID string, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[connID]; exists {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Send dropped message for conn %s (buffer full)", connID)
		}
	}
}

// Run processes client registration. Must be started once before any
// upgrade is accepted.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.connID] = client
			h.mu.Unlock()
			log.Printf("[WS] Conn %s connected", client.connID)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.connID]; ok && cur == client {
				delete(h.clients, client.connID)
				h.removeFromRoomLocked(client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WS] Conn %s disconnected", client.connID)

			// Slot release goes through the grace window, not an
			// immediate vacate.
			client.coord.HandleDisconnect(client.connID)
		}
	}
}

func (h *Hub) joinRoom(client *Client, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(client)
	client.roomCode = roomCode
	if _, exists := h.rooms[roomCode]; !exists {
		h.rooms[roomCode] = make(map[string]*Client)
	}
	h.rooms[roomCode][client.connID] = client
}

func (h *Hub) removeFromRoomLocked(client *Client) {
	if client.roomCode == "" {
		return
	}
	if room, exists := h.rooms[client.roomCode]; exists {
		delete(room, client.connID)
		if len(room) == 0 {
			delete(h.rooms, client.roomCode)
		}
	}
	client.roomCode = ""
}

// HandleWebSocket upgrades the connection and starts the read/write
// pumps. Each conn gets a fresh opaque id; the core never sees the
// socket.
func HandleWebSocket(hub *Hub, coord *game.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:   conn,
			connID: uuid.NewString(),
			hub:    hub,
			coord:  coord,
			send:   make(chan []byte, 256),
		}

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// WSMessage is the inbound envelope: a type tag plus raw payload.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type JoinData struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
}

type ShotData struct {
	RoomCode string `json:"room_code"`
	Velocity struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"velocity"`
}

type RoomData struct {
	RoomCode string `json:"room_code"`
}

// readPump reads inbound messages until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for conn %s: %v", c.connID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage dispatches one inbound message into the coordinator.
func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "join":
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.RoomCode == "" {
			c.sendError("Invalid join data")
			return
		}
		c.hub.joinRoom(c, data.RoomCode)
		c.coord.HandleJoin(data.RoomCode, c.connID, data.Name)

	case "shot":
		var data ShotData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.RoomCode == "" {
			c.sendError("Invalid shot data")
			return
		}
		c.coord.HandleShot(data.RoomCode, c.connID, game.NewVec2(data.Velocity.X, data.Velocity.Y))

	case "leave":
		var data RoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.RoomCode == "" {
			c.sendError("Invalid leave data")
			return
		}
		c.coord.HandleLeave(data.RoomCode, c.connID)

	case "restart":
		var data RoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.RoomCode == "" {
			c.sendError("Invalid restart data")
			return
		}
		c.coord.HandleRestart(data.RoomCode)

	case "get_state":
		var data RoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.RoomCode == "" {
			c.sendError("Invalid state request")
			return
		}
		if state, ok := c.coord.RoomState(data.RoomCode); ok {
			d, _ := json.Marshal(state)
			select {
			case c.send <- d:
			default:
			}
		}

	default:
		c.sendError("Unknown message type")
	}
}

// writePump writes outbound messages and keeps the connection alive
// with pings.
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
				log.Printf("[WS] Write error for conn %s: %v", c.connID, err)
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

func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	select {
	case c.send <- data:
	default:
	}
}
