package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskwire/taskwire/internal/database"
	"github.com/taskwire/taskwire/internal/middleware"
	"github.com/taskwire/taskwire/internal/models"
	"github.com/taskwire/taskwire/internal/services"
)

const testUserHeader = "X-Test-User"

// testIdentity stands in for the JWT middleware: the caller identity comes
// from a header instead of a verified token.
func testIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(testUserHeader))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			c.Abort()
			return
		}
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func newTaskRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Task{}))

	taskH := NewTaskHandler(services.NewTaskService(database.NewDatabase(db)))

	r := gin.New()
	api := r.Group("/api", testIdentity())
	{
		api.POST("/tasks", taskH.CreateTask)
		api.GET("/tasks", taskH.ListTasks)
		api.GET("/tasks/:id", taskH.GetTask)
		api.PUT("/tasks/:id", taskH.UpdateTask)
		api.DELETE("/tasks/:id", taskH.DeleteTask)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, caller uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(testUserHeader, caller.String())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) models.Task {
	t.Helper()

	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func Test_Create_Task_Returns_201_With_Defaults(t *testing.T) {
	req := require.New(t)
	r := newTaskRouter(t)
	userA := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/tasks", userA, gin.H{"title": "Buy milk"})
	req.Equal(http.StatusCreated, w.Code)

	task := decodeTask(t, w)
	req.Equal("Buy milk", task.Title)
	req.Equal(models.StatusOpen, task.Status)
	req.Equal(userA, task.OwnerID)
}

func Test_Create_Task_Without_Title_Returns_400(t *testing.T) {
	req := require.New(t)
	r := newTaskRouter(t)
	userA := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/tasks", userA, gin.H{"description": "no title"})
	req.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasks", userA, nil)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq("[]", w.Body.String())
}

func Test_Foreign_Task_Is_404_Not_403(t *testing.T) {
	req := require.New(t)
	r := newTaskRouter(t)
	userA := uuid.New()
	userB := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/tasks", userA, gin.H{"title": "Buy milk"})
	req.Equal(http.StatusCreated, w.Code)
	task := decodeTask(t, w)

	w = doJSON(t, r, http.MethodGet, "/api/tasks/"+task.ID.String(), userB, nil)
	req.Equal(http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+task.ID.String(), userB, nil)
	req.Equal(http.StatusNotFound, w.Code)
}

func Test_Task_Scenario_Create_List_Update(t *testing.T) {
	req := require.New(t)
	r := newTaskRouter(t)
	userA := uuid.New()
	userB := uuid.New()

	// Create as A
	w := doJSON(t, r, http.MethodPost, "/api/tasks", userA, gin.H{"title": "Buy milk"})
	req.Equal(http.StatusCreated, w.Code)
	task := decodeTask(t, w)
	req.Equal(models.StatusOpen, task.Status)
	req.Equal(userA, task.OwnerID)

	// List as B is empty
	w = doJSON(t, r, http.MethodGet, "/api/tasks", userB, nil)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq("[]", w.Body.String())

	// Update status as A keeps the title
	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+task.ID.String(), userA, gin.H{"status": "done"})
	req.Equal(http.StatusOK, w.Code)
	updated := decodeTask(t, w)
	req.Equal(models.StatusDone, updated.Status)
	req.Equal("Buy milk", updated.Title)
}

func Test_Update_With_Invalid_Status_Returns_400(t *testing.T) {
	req := require.New(t)
	r := newTaskRouter(t)
	userA := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/tasks", userA, gin.H{"title": "Buy milk"})
	task := decodeTask(t, w)

	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+task.ID.String(), userA, gin.H{"status": "archived"})
	req.Equal(http.StatusBadRequest, w.Code)
}

func Test_Delete_Then_Get_Returns_404(t *testing.T) {
	req := require.New(t)
	r := newTaskRouter(t)
	userA := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/tasks", userA, gin.H{"title": "Buy milk"})
	task := decodeTask(t, w)

	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+task.ID.String(), userA, nil)
	req.Equal(http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasks/"+task.ID.String(), userA, nil)
	req.Equal(http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+task.ID.String(), userA, nil)
	req.Equal(http.StatusNotFound, w.Code)
}

func Test_Malformed_Task_ID_Returns_404(t *testing.T) {
	req := require.New(t)
	r := newTaskRouter(t)
	userA := uuid.New()

	w := doJSON(t, r, http.MethodGet, "/api/tasks/not-a-uuid", userA, nil)
	req.Equal(http.StatusNotFound, w.Code)
}
