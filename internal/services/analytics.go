package services

import (
	"sort"

	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type PriorityData struct {
	HighPriority   int `json:"highPriority"`
	MediumPriority int `json:"mediumPriority"`
	LowPriority    int `json:"lowPriority"`
	TotalTasks     int `json:"totalTasks"`
}

type DayCompletion struct {
	Day                  string  `json:"day"`
	TotalTasks           int     `json:"totalTasks"`
	CompletedTasks       int     `json:"completedTasks"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

type Analytics struct {
	PriorityData          PriorityData    `json:"priorityData"`
	DayWiseCompletionData []DayCompletion `json:"dayWiseCompletionData"`
}

type AnalyticsService interface {
	ComputeAnalytics(db *gorm.DB, ownerID uuid.UUID) (Analytics, error)
}

type AnalyticsServiceImpl struct{}

func NewAnalyticsService() *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{}
}

// ComputeAnalytics summarizes the caller's tasks that carry a due date.
// The whole scan either succeeds or the operation fails; a partial summary is
// never returned. Grouping happens in memory over a single table scan, with
// the day key truncated to UTC calendar days.
func (s *AnalyticsServiceImpl) ComputeAnalytics(db *gorm.DB, ownerID uuid.UUID) (Analytics, error) {
	var tasks []models.Task
	err := db.Where("created_by = ? AND due_date IS NOT NULL", ownerID).Find(&tasks).Error
	if err != nil {
		return Analytics{}, err
	}

	analytics := Analytics{
		DayWiseCompletionData: []DayCompletion{},
	}

	buckets := make(map[string]*DayCompletion)
	for _, task := range tasks {
		switch task.Priority {
		case models.PriorityHigh:
			analytics.PriorityData.HighPriority++
		case models.PriorityMedium:
			analytics.PriorityData.MediumPriority++
		case models.PriorityLow:
			analytics.PriorityData.LowPriority++
		}
		analytics.PriorityData.TotalTasks++

		day := bucketDay(task)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &DayCompletion{Day: day}
			buckets[day] = bucket
		}
		bucket.TotalTasks++
		if task.Status == models.StatusCompleted {
			bucket.CompletedTasks++
		}
	}

	for _, bucket := range buckets {
		if bucket.TotalTasks > 0 {
			bucket.CompletionPercentage = 100 * float64(bucket.CompletedTasks) / float64(bucket.TotalTasks)
		}
		analytics.DayWiseCompletionData = append(analytics.DayWiseCompletionData, *bucket)
	}

	// The grouping itself is unordered; sort by day so responses are stable.
	sort.Slice(analytics.DayWiseCompletionData, func(i, j int) bool {
		return analytics.DayWiseCompletionData[i].Day < analytics.DayWiseCompletionData[j].Day
	})

	return analytics, nil
}

// bucketDay keys a task by the calendar day of its completion when it has
// one, falling back to its creation day.
func bucketDay(task models.Task) string {
	at := task.CreatedAt
	if task.CompletedAt != nil {
		at = *task.CompletedAt
	}
	return at.UTC().Format("2006-01-02")
}
