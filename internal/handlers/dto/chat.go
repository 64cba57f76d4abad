package dto

import "github.com/google/uuid"

// ChatPayload is the body of an inbound chatMessage frame. The sender is
// whatever the client claims; the relay path does not verify it.
type ChatPayload struct {
	Message  string     `json:"message"`
	Room     string     `json:"room"`
	SenderID *uuid.UUID `json:"senderId,omitempty"`
}
