package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MessageType discriminates the JSON frames on the realtime channel.
type MessageType string

const (
	// Inbound from clients
	TypeJoinRoom  MessageType = "joinRoom"
	TypeLeaveRoom MessageType = "leaveRoom"
	TypeChat      MessageType = "chatMessage"

	// Outbound to clients
	TypeMessage MessageType = "message"
	TypeError   MessageType = "error"
)

type Frame struct {
	Type      MessageType     `json:"type"`
	Room      string          `json:"room,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub owns the room registry: room name → currently joined clients.
// Membership lives in memory only, for the lifetime of the connection.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Clients grouped by room
	rooms map[string]map[uuid.UUID]*Client

	// Registration channels
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes client registrations until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop shuts the hub down and drops every connection.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.rooms = make(map[string]map[uuid.UUID]*Client)
}

// Register registers a new client.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	log.Printf("Client connected: %s", client.ID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		// Disconnect implies leaving every room
		for room := range client.roomsSnapshot() {
			h.removeFromRoomUnsafe(client, room)
		}

		delete(h.clients, client.ID)
		close(client.Send)

		log.Printf("Client disconnected: %s", client.ID)
	}
}

// Join adds a client to a room. Joining the same room twice is a no-op.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[uuid.UUID]*Client)
	}

	h.rooms[room][client.ID] = client
	client.mu.Lock()
	client.Rooms[room] = true
	client.mu.Unlock()
}

// Leave removes a client from a room.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomUnsafe(client, room)
}

// LeaveAll removes a client from every room without closing the connection.
func (h *Hub) LeaveAll(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range client.roomsSnapshot() {
		h.removeFromRoomUnsafe(client, room)
	}
}

func (h *Hub) removeFromRoomUnsafe(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		if _, ok := members[client.ID]; ok {
			delete(members, client.ID)
			client.mu.Lock()
			delete(client.Rooms, room)
			client.mu.Unlock()

			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// Broadcast delivers a frame to every current member of the room,
// including the sender's own connection if still joined.
func (h *Hub) Broadcast(room string, frame Frame) {
	frame.Timestamp = time.Now()

	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("Failed to marshal frame for room %q: %v", room, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, ok := h.rooms[room]; ok {
		for _, client := range members {
			select {
			case client.Send <- data:
			default:
				log.Printf("Client %s send channel full", client.ID)
			}
		}
	}
}

// RoomMembers returns the clients currently joined to a room.
func (h *Hub) RoomMembers(room string) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[room]
	ids := make([]uuid.UUID, 0, len(members))
	if ok {
		for id := range members {
			ids = append(ids, id)
		}
	}
	return ids
}
