package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskwire/taskwire/internal/models"
)

// TaskStore is the slice of the store adapter the task service consumes.
type TaskStore interface {
	CreateTask(task *models.Task) error
	TasksByOwner(ownerID uuid.UUID) ([]models.Task, error)
	TaskByIDAndOwner(id, ownerID uuid.UUID) (*models.Task, error)
	UpdateTaskFields(task *models.Task, updates map[string]any) error
	DeleteTaskByIDAndOwner(id, ownerID uuid.UUID) (int64, error)
}

type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// TaskUpdate carries the optional fields of a partial update. A nil field
// is left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
}

func (s *TaskService) Create(ownerID uuid.UUID, title, description string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	task := &models.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      models.StatusOpen,
	}

	if err := s.store.CreateTask(task); err != nil {
		return nil, &StorageError{Op: "create task", Err: err}
	}

	return task, nil
}

func (s *TaskService) List(ownerID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.store.TasksByOwner(ownerID)
	if err != nil {
		return nil, &StorageError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}

func (s *TaskService) GetByID(ownerID, id uuid.UUID) (*models.Task, error) {
	return s.lookup(ownerID, id)
}

func (s *TaskService) Update(ownerID, id uuid.UUID, upd TaskUpdate) (*models.Task, error) {
	updates := map[string]any{}

	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Status != nil {
		if _, ok := models.ValidTaskStatuses[*upd.Status]; !ok {
			return nil, &ValidationError{Field: "status", Reason: "must be one of open, in_progress, done"}
		}
		updates["status"] = *upd.Status
	}

	task, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := s.store.UpdateTaskFields(task, updates); err != nil {
		return nil, &StorageError{Op: "update task", Err: err}
	}

	// Re-read so the caller sees the stored record, fresh timestamps included.
	return s.lookup(ownerID, id)
}

func (s *TaskService) Delete(ownerID, id uuid.UUID) error {
	rows, err := s.store.DeleteTaskByIDAndOwner(id, ownerID)
	if err != nil {
		return &StorageError{Op: "delete task", Err: err}
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TaskService) lookup(ownerID, id uuid.UUID) (*models.Task, error) {
	task, err := s.store.TaskByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "fetch task", Err: err}
	}
	return task, nil
}
