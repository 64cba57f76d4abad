package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskwire/taskwire/internal/handlers/dto"
	"github.com/taskwire/taskwire/internal/models"
	"github.com/taskwire/taskwire/internal/websocket"
)

// ErrRelayFailed is all the originating connection learns about a failed
// relay; the store's own error never crosses the boundary.
var ErrRelayFailed = errors.New("failed to send message")

// ChatStore is the slice of the store adapter the relay consumes.
type ChatStore interface {
	SaveChatMessage(message *models.ChatMessage) error
	RoomHistory(room string, limit int, beforeID *uuid.UUID) ([]models.ChatMessage, error)
}

// ChatHandler relays chat frames: persist first, then fan out to the room.
type ChatHandler struct {
	store ChatStore
	hub   *websocket.Hub
}

func NewChatHandler(store ChatStore, hub *websocket.Hub) *ChatHandler {
	return &ChatHandler{store: store, hub: hub}
}

// HandleChat persists an inbound chat message and broadcasts the stored
// record to the room. If persistence fails nothing is delivered and the
// error surfaces only on the originating connection.
func (h *ChatHandler) HandleChat(client *websocket.Client, frame *websocket.Frame) error {
	var payload dto.ChatPayload
	if err := json.Unmarshal(frame.Data, &payload); err != nil {
		return websocket.ErrInvalidMessage
	}

	if payload.Message == "" || payload.Room == "" {
		return websocket.ErrInvalidMessage
	}

	message := &models.ChatMessage{
		Room:     payload.Room,
		SenderID: payload.SenderID,
		Message:  payload.Message,
	}

	if err := h.store.SaveChatMessage(message); err != nil {
		log.Printf("Failed to save chat message: %v", err)
		return ErrRelayFailed
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal chat message: %v", err)
		return ErrRelayFailed
	}

	h.hub.Broadcast(payload.Room, websocket.Frame{
		Type: websocket.TypeMessage,
		Room: payload.Room,
		Data: data,
	})

	return nil
}

// RoomMessages returns the persisted chat log of a room, oldest first.
func (h *ChatHandler) RoomMessages(c *gin.Context) {
	room := c.Param("room")

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	var beforeID *uuid.UUID
	if before := c.Query("before"); before != "" {
		if id, err := uuid.Parse(before); err == nil {
			beforeID = &id
		}
	}

	messages, err := h.store.RoomHistory(room, limit, beforeID)
	if err != nil {
		log.Printf("Failed to load room history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"has_more": len(messages) == limit,
	})
}
