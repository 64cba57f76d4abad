package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is the stored record of a relayed chat message. It is written
// exactly once per relay and never updated or deleted afterwards.
type ChatMessage struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Room      string     `gorm:"not null;index" json:"room"`
	SenderID  *uuid.UUID `gorm:"type:uuid" json:"sender_id,omitempty"`
	Message   string     `gorm:"not null" json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
