package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskwire/taskwire/internal/handlers/dto"
	"github.com/taskwire/taskwire/internal/middleware"
	"github.com/taskwire/taskwire/internal/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTask creates a task owned by the authenticated caller.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	callerID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Create(callerID, req.Title, req.Description)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks returns every task owned by the caller, unpaginated.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	callerID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	tasks, err := h.tasks.List(callerID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	callerID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(callerID, id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	callerID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Update(callerID, id, services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	callerID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(callerID, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func parseTaskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// An unparseable id can never match a record
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return uuid.Nil, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		log.Printf("Task operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
