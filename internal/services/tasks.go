package services

import (
	"errors"
	"time"
	"unicode/utf8"

	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.Priority
}

// TaskPatch is a partial update. A nil field is "not supplied" and leaves the
// stored value untouched; a non-nil field overwrites it, even with a zero
// value. This replaces merge-by-truthiness, which silently dropped falsy
// updates.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *models.Priority
	Status      *models.Status
}

// TaskFilter narrows and orders a task listing. Status is the coarse
// two-state filter from the original API: "completed" selects completed
// tasks, any other non-empty value selects the rest. It is deliberately not
// a three-way match on the status enum.
type TaskFilter struct {
	Status    string
	Priority  models.Priority
	SortBy    string
	SortOrder string
}

type TaskService interface {
	CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error)
	GetTaskByID(db *gorm.DB, id, callerID uuid.UUID) (models.Task, error)
	ListTasks(db *gorm.DB, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error)
	UpdateTask(db *gorm.DB, id, callerID uuid.UUID, patch TaskPatch) (models.Task, error)
	DeleteTask(db *gorm.DB, id, callerID uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

const (
	titleMinLen       = 3
	titleMaxLen       = 100
	descriptionMinLen = 10
	descriptionMaxLen = 500
)

// sortColumns whitelists the columns a caller may sort by.
var sortColumns = map[string]string{
	"title":       "title",
	"dueDate":     "due_date",
	"priority":    "priority",
	"status":      "status",
	"completedAt": "completed_at",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error) {
	if err := validateCreateInput(input); err != nil {
		return models.Task{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      models.StatusPending,
		Completed:   false,
		CreatedBy:   ownerID,
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func validateCreateInput(input CreateTaskInput) error {
	if input.Title == "" {
		return &MissingFieldError{Field: "title"}
	}
	if input.Description == "" {
		return &MissingFieldError{Field: "description"}
	}
	if input.DueDate == nil {
		return &MissingFieldError{Field: "dueDate"}
	}
	if input.Priority == "" {
		return &MissingFieldError{Field: "priority"}
	}

	if err := validateTitle(input.Title); err != nil {
		return err
	}
	if err := validateDescription(input.Description); err != nil {
		return err
	}
	if !input.Priority.Valid() {
		return &ValidationError{Field: "priority", Constraint: "must be one of: High, Medium, or Low"}
	}
	if !input.DueDate.After(time.Now()) {
		return ErrInvalidDueDate
	}
	return nil
}

// Length limits count characters, not bytes, so multi-byte input is measured
// the same way a user reads it.
func validateTitle(title string) error {
	length := utf8.RuneCountInString(title)
	if length < titleMinLen {
		return &ValidationError{Field: "title", Constraint: "must be at least 3 characters long"}
	}
	if length > titleMaxLen {
		return &ValidationError{Field: "title", Constraint: "cannot be longer than 100 characters"}
	}
	return nil
}

func validateDescription(description string) error {
	length := utf8.RuneCountInString(description)
	if length < descriptionMinLen {
		return &ValidationError{Field: "description", Constraint: "must be at least 10 characters long"}
	}
	if length > descriptionMaxLen {
		return &ValidationError{Field: "description", Constraint: "cannot be longer than 500 characters"}
	}
	return nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id, callerID uuid.UUID) (models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	if task.CreatedBy != callerID {
		return models.Task{}, ErrForbidden
	}
	return task, nil
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	query := db.Where("created_by = ?", ownerID)

	if filter.Status != "" {
		query = query.Where("completed = ?", filter.Status == "completed")
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if column, ok := sortColumns[filter.SortBy]; ok {
		direction := "asc"
		if filter.SortOrder == "desc" {
			direction = "desc"
		}
		query = query.Order(column + " " + direction)
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id, callerID uuid.UUID, patch TaskPatch) (models.Task, error) {
	task, err := s.GetTaskByID(db, id, callerID)
	if err != nil {
		return models.Task{}, err
	}

	if err := applyPatch(&task, patch); err != nil {
		return models.Task{}, err
	}

	// Completion is re-derived from the merged status on every update, even
	// when the patch did not touch status. The future-due-date rule is a
	// creation-only constraint and is not re-checked here.
	if task.Status == models.StatusCompleted {
		now := time.Now()
		task.Completed = true
		task.CompletedAt = &now
	} else {
		task.Completed = false
		task.CompletedAt = nil
	}

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func applyPatch(task *models.Task, patch TaskPatch) error {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return err
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return err
		}
		task.Description = *patch.Description
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return &ValidationError{Field: "priority", Constraint: "must be one of: High, Medium, or Low"}
		}
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return &ValidationError{Field: "status", Constraint: "must be one of: Pending, In Progress, or Completed"}
		}
		task.Status = *patch.Status
	}
	return nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id, callerID uuid.UUID) error {
	task, err := s.GetTaskByID(db, id, callerID)
	if err != nil {
		return err
	}
	return db.Delete(&task).Error
}
