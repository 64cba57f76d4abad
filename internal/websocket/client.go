package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Write timeout
	writeWait = 10 * time.Second

	// Pong deadline
	pongWait = 60 * time.Second

	// Ping interval
	pingPeriod = (pongWait * 9) / 10

	// Max inbound frame size
	maxMessageSize = 512 * 1024 // 512KB
)

// FrameHandler processes chat frames read off a connection.
type FrameHandler interface {
	HandleChat(client *Client, frame *Frame) error
}

// Client is one live connection. A new physical connection is a wholly
// new identity in the registry; there is no session resumption.
type Client struct {
	ID    uuid.UUID
	Conn  *websocket.Conn
	Send  chan []byte
	Rooms map[string]bool
	Hub   *Hub
	mu    sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:    uuid.New(),
		Conn:  conn,
		Send:  make(chan []byte, 256),
		Rooms: make(map[string]bool),
		Hub:   hub,
	}
}

// ReadPump reads frames from the connection until it drops. Room joins and
// leaves are handled here; chat frames go to the handler.
func (c *Client) ReadPump(handler FrameHandler) {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame Frame
		err := c.Conn.ReadJSON(&frame)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch frame.Type {
		case TypeJoinRoom:
			if frame.Room != "" {
				c.Hub.Join(c, frame.Room)
			}
			continue

		case TypeLeaveRoom:
			if frame.Room != "" {
				c.Hub.Leave(c, frame.Room)
			}
			continue

		case TypeChat:
			if handler != nil {
				if err := handler.HandleChat(c, &frame); err != nil {
					log.Printf("Error handling chat frame: %v", err)
					c.SendError(err.Error())
				}
			}

		default:
			log.Printf("Unknown frame type: %s", frame.Type)
		}
	}
}

// WritePump drains the send queue to the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendFrame queues a frame for this connection only.
func (c *Client) SendFrame(msgType MessageType, room string, data interface{}) error {
	frame := Frame{
		Type:      msgType,
		Room:      room,
		Timestamp: time.Now(),
	}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return err
		}
		frame.Data = jsonData
	}

	frameData, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case c.Send <- frameData:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// SendError reports a failure to this connection only, never to the room.
func (c *Client) SendError(errorMsg string) {
	c.SendFrame(TypeError, "", map[string]string{
		"error": errorMsg,
	})
}

func (c *Client) IsInRoom(room string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Rooms[room]
}

func (c *Client) roomsSnapshot() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make(map[string]bool, len(c.Rooms))
	for room := range c.Rooms {
		rooms[room] = true
	}
	return rooms
}
