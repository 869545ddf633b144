package services

import (
	"fmt"
	"time"

	"taskify/backend/internal/cache"
	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	taskTTL      = 30 * time.Minute
	listTTL      = 5 * time.Minute
	analyticsTTL = time.Minute
)

// CachedTaskService decorates a TaskService and an AnalyticsService with a
// per-user redis cache. All keys are scoped by owner, so invalidation after
// a write only evicts the writer's entries.
type CachedTaskService struct {
	taskService      TaskService
	analyticsService AnalyticsService
	cache            *cache.RedisCache
}

func NewCachedTaskService(taskService TaskService, analyticsService AnalyticsService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{
		taskService:      taskService,
		analyticsService: analyticsService,
		cache:            cacheInstance,
	}
}

func taskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id)
}

func listKey(ownerID uuid.UUID, filter TaskFilter) string {
	return fmt.Sprintf("user_tasks:%s:%s:%s:%s:%s",
		ownerID, filter.Status, filter.Priority, filter.SortBy, filter.SortOrder)
}

func analyticsKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("analytics:%s", ownerID)
}

// invalidateUser drops every cached view belonging to one user.
func (s *CachedTaskService) invalidateUser(ownerID uuid.UUID) {
	s.cache.DeletePattern(fmt.Sprintf("user_tasks:%s:*", ownerID))
	s.cache.Delete(analyticsKey(ownerID))
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error) {
	task, err := s.taskService.CreateTask(db, ownerID, input)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(task.ID), task, taskTTL)
	s.invalidateUser(ownerID)

	return task, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, id, callerID uuid.UUID) (models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(taskKey(id), &cached); err == nil {
		// Ownership still applies to cache hits.
		if cached.CreatedBy != callerID {
			return models.Task{}, ErrForbidden
		}
		return cached, nil
	}

	task, err := s.taskService.GetTaskByID(db, id, callerID)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, taskTTL)
	return task, nil
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	key := listKey(ownerID, filter)

	var cached []models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.ListTasks(db, ownerID, filter)
	if err != nil {
		return tasks, err
	}

	s.cache.Set(key, tasks, listTTL)
	return tasks, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, id, callerID uuid.UUID, patch TaskPatch) (models.Task, error) {
	task, err := s.taskService.UpdateTask(db, id, callerID, patch)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, taskTTL)
	s.invalidateUser(task.CreatedBy)

	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, id, callerID uuid.UUID) error {
	if err := s.taskService.DeleteTask(db, id, callerID); err != nil {
		return err
	}

	s.cache.Delete(taskKey(id))
	s.invalidateUser(callerID)

	return nil
}

// ComputeAnalytics serves the analytics summary from cache when fresh.
// The TTL is short; the cache only absorbs dashboard refresh bursts.
func (s *CachedTaskService) ComputeAnalytics(db *gorm.DB, ownerID uuid.UUID) (Analytics, error) {
	key := analyticsKey(ownerID)

	var cached Analytics
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	analytics, err := s.analyticsService.ComputeAnalytics(db, ownerID)
	if err != nil {
		return analytics, err
	}

	s.cache.Set(key, analytics, analyticsTTL)
	return analytics, nil
}
