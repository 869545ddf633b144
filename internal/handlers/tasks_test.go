package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskify/backend/internal/handlers"
	"taskify/backend/internal/models"
	"taskify/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockTaskService struct {
	returnErr  error
	tasks      []models.Task
	lastFilter services.TaskFilter
}

func (m *MockTaskService) CreateTask(db *gorm.DB, ownerID uuid.UUID, input services.CreateTaskInput) (models.Task, error) {
	if m.returnErr != nil {
		return models.Task{}, m.returnErr
	}
	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      models.StatusPending,
		CreatedBy:   ownerID,
	}
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *MockTaskService) GetTaskByID(db *gorm.DB, id, callerID uuid.UUID) (models.Task, error) {
	if m.returnErr != nil {
		return models.Task{}, m.returnErr
	}
	for _, task := range m.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return models.Task{ID: id, Title: "Test Task", Status: models.StatusPending}, nil
}

func (m *MockTaskService) ListTasks(db *gorm.DB, ownerID uuid.UUID, filter services.TaskFilter) ([]models.Task, error) {
	m.lastFilter = filter
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return m.tasks, nil
}

func (m *MockTaskService) UpdateTask(db *gorm.DB, id, callerID uuid.UUID, patch services.TaskPatch) (models.Task, error) {
	if m.returnErr != nil {
		return models.Task{}, m.returnErr
	}
	return models.Task{ID: id, Title: "Updated"}, nil
}

func (m *MockTaskService) DeleteTask(db *gorm.DB, id, callerID uuid.UUID) error {
	return m.returnErr
}

func setupTaskHandler() (*MockTaskService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTaskService{}
	handler := handlers.NewTaskHandler(nil, mockService, nil)
	router := gin.New()

	// Stand-in for the auth middleware.
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.Must(uuid.NewV4()).String())
		c.Next()
	})

	router.POST("/tasks", handler.CreateTask)
	router.GET("/tasks", handler.GetTasks)
	router.GET("/tasks/:id", handler.GetTaskByID)
	router.PUT("/tasks/:id", handler.UpdateTask)
	router.DELETE("/tasks/:id", handler.DeleteTask)

	return mockService, router
}

func TestCreateTask(t *testing.T) {
	_, router := setupTaskHandler()

	due := time.Now().Add(24 * time.Hour)
	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Test Task",
		"description": "A reasonably long description",
		"dueDate":     due,
		"priority":    "High",
	})

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["success"] != true {
		t.Errorf("Expected success true, got %v", response["success"])
	}
	if _, ok := response["newTask"]; !ok {
		t.Error("Expected newTask in response")
	}
}

func TestCreateTaskInvalidJSON(t *testing.T) {
	_, router := setupTaskHandler()

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTaskMissingField(t *testing.T) {
	mockService, router := setupTaskHandler()
	mockService.returnErr = &services.MissingFieldError{Field: "title"}

	body, _ := json.Marshal(map[string]interface{}{"description": "A reasonably long description"})
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetTaskByIDNotFound(t *testing.T) {
	mockService, router := setupTaskHandler()
	mockService.returnErr = services.ErrTaskNotFound

	req, _ := http.NewRequest("GET", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetTaskByIDForbidden(t *testing.T) {
	mockService, router := setupTaskHandler()
	mockService.returnErr = services.ErrForbidden

	req, _ := http.NewRequest("GET", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestGetTaskByIDInvalidID(t *testing.T) {
	_, router := setupTaskHandler()

	req, _ := http.NewRequest("GET", "/tasks/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetTasksPassesFilter(t *testing.T) {
	mockService, router := setupTaskHandler()
	mockService.tasks = []models.Task{
		{Title: "Task 1", Status: models.StatusPending},
		{Title: "Task 2", Status: models.StatusCompleted},
	}

	req, _ := http.NewRequest("GET", "/tasks?status=completed&priority=High&sortBy=dueDate&sortOrder=desc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	if mockService.lastFilter.Status != "completed" {
		t.Errorf("Expected status filter 'completed', got '%s'", mockService.lastFilter.Status)
	}
	if mockService.lastFilter.Priority != models.PriorityHigh {
		t.Errorf("Expected priority filter High, got '%s'", mockService.lastFilter.Priority)
	}
	if mockService.lastFilter.SortBy != "dueDate" || mockService.lastFilter.SortOrder != "desc" {
		t.Errorf("Unexpected sort options: %+v", mockService.lastFilter)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	tasks, ok := response["task"].([]interface{})
	if !ok || len(tasks) != 2 {
		t.Errorf("Expected 2 tasks in response, got %v", response["task"])
	}
}

func TestUpdateTask(t *testing.T) {
	_, router := setupTaskHandler()

	body, _ := json.Marshal(map[string]interface{}{"status": "Completed"})
	req, _ := http.NewRequest("PUT", "/tasks/"+uuid.Must(uuid.NewV4()).String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	_, router := setupTaskHandler()

	req, _ := http.NewRequest("DELETE", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestTasksRequireAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewTaskHandler(nil, &MockTaskService{}, nil)
	router := gin.New()
	router.GET("/tasks", handler.GetTasks)

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
