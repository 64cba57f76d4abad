package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	ws "github.com/taskwire/taskwire/internal/websocket"
)

// WebSocketHandler upgrades connections onto the chat channel. The chat
// path is deliberately unauthenticated; senders are taken from the payload.
type WebSocketHandler struct {
	hub         *ws.Hub
	chatHandler *ChatHandler
	upgrader    websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, chatHandler *ChatHandler) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		chatHandler: chatHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origin in prod
				return true
			},
		},
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.chatHandler)
}
