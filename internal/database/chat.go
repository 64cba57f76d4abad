package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskwire/taskwire/internal/models"
)

func (d *Database) SaveChatMessage(message *models.ChatMessage) error {
	return d.db.Create(message).Error
}

// RoomHistory returns a room's chat log with cursor pagination.
func (d *Database) RoomHistory(room string, limit int, beforeID *uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	query := d.db.Where("room = ?", room)

	if beforeID != nil {
		var before models.ChatMessage
		err := d.db.First(&before, "id = ?", beforeID).Error
		switch {
		case err == nil:
			query = query.Where("created_at < ?", before.CreatedAt)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
		// An unknown cursor just means an unfiltered first page
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error

	if err != nil {
		return nil, err
	}

	// Oldest first for the caller.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
