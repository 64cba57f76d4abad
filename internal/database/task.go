package database

import (
	"github.com/google/uuid"

	"github.com/taskwire/taskwire/internal/models"
)

func (d *Database) CreateTask(task *models.Task) error {
	return d.db.Create(task).Error
}

func (d *Database) TasksByOwner(ownerID uuid.UUID) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := d.db.Where("owner_id = ?", ownerID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskByIDAndOwner filters by id and owner in a single predicate, so a
// foreign task and a missing task are the same ErrRecordNotFound.
func (d *Database) TaskByIDAndOwner(id, ownerID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := d.db.First(&task, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (d *Database) UpdateTaskFields(task *models.Task, updates map[string]any) error {
	return d.db.Model(task).Updates(updates).Error
}

// DeleteTaskByIDAndOwner reports how many rows were removed so the caller
// can distinguish a no-op delete.
func (d *Database) DeleteTaskByIDAndOwner(id, ownerID uuid.UUID) (int64, error) {
	res := d.db.Delete(&models.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	return res.RowsAffected, res.Error
}
