package services_test

import (
	"testing"
	"time"

	"taskify/backend/internal/models"
	"taskify/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func insertTask(t *testing.T, db *gorm.DB, owner uuid.UUID, priority models.Priority, status models.Status, createdAt time.Time, completedAt *time.Time, dueDate *time.Time) {
	t.Helper()
	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       "Analytics seed",
		Description: "Seed row for aggregation tests",
		DueDate:     dueDate,
		Priority:    priority,
		Status:      status,
		Completed:   status == models.StatusCompleted,
		CompletedAt: completedAt,
		CreatedBy:   owner,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&task).Error)
}

func TestComputeAnalytics_EmptySet(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAnalyticsService()

	analytics, err := svc.ComputeAnalytics(db, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	assert.Equal(t, services.PriorityData{}, analytics.PriorityData)
	assert.NotNil(t, analytics.DayWiseCompletionData)
	assert.Empty(t, analytics.DayWiseCompletionData)
}

func TestComputeAnalytics_PriorityCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAnalyticsService()
	owner := uuid.Must(uuid.NewV4())

	now := time.Now().UTC()
	due := now.Add(24 * time.Hour)

	insertTask(t, db, owner, models.PriorityHigh, models.StatusPending, now, nil, &due)
	insertTask(t, db, owner, models.PriorityHigh, models.StatusPending, now, nil, &due)
	insertTask(t, db, owner, models.PriorityMedium, models.StatusInProgress, now, nil, &due)
	insertTask(t, db, owner, models.PriorityLow, models.StatusPending, now, nil, &due)

	// No due date: excluded from the summary entirely.
	insertTask(t, db, owner, models.PriorityHigh, models.StatusPending, now, nil, nil)
	// Other owner: never counted.
	insertTask(t, db, uuid.Must(uuid.NewV4()), models.PriorityHigh, models.StatusPending, now, nil, &due)

	analytics, err := svc.ComputeAnalytics(db, owner)
	require.NoError(t, err)

	assert.Equal(t, services.PriorityData{
		HighPriority:   2,
		MediumPriority: 1,
		LowPriority:    1,
		TotalTasks:     4,
	}, analytics.PriorityData)
}

func TestComputeAnalytics_DayWiseBuckets(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewAnalyticsService()
	owner := uuid.Must(uuid.NewV4())

	due := time.Now().UTC().Add(24 * time.Hour)
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 3, 3, 17, 30, 0, 0, time.UTC)

	// Monday: one completed, one pending created the same day.
	insertTask(t, db, owner, models.PriorityHigh, models.StatusCompleted, monday.Add(-48*time.Hour), &monday, &due)
	insertTask(t, db, owner, models.PriorityLow, models.StatusPending, monday, nil, &due)
	// Tuesday: one completed; its bucket comes from CompletedAt, not the
	// Monday creation time.
	insertTask(t, db, owner, models.PriorityMedium, models.StatusCompleted, monday, &tuesday, &due)

	analytics, err := svc.ComputeAnalytics(db, owner)
	require.NoError(t, err)

	require.Len(t, analytics.DayWiseCompletionData, 2)

	byDay := make(map[string]services.DayCompletion)
	for _, bucket := range analytics.DayWiseCompletionData {
		byDay[bucket.Day] = bucket
		assert.LessOrEqual(t, bucket.CompletedTasks, bucket.TotalTasks)
	}

	mondayBucket := byDay["2026-03-02"]
	assert.Equal(t, 2, mondayBucket.TotalTasks)
	assert.Equal(t, 1, mondayBucket.CompletedTasks)
	assert.InDelta(t, 50.0, mondayBucket.CompletionPercentage, 0.001)

	tuesdayBucket := byDay["2026-03-03"]
	assert.Equal(t, 1, tuesdayBucket.TotalTasks)
	assert.Equal(t, 1, tuesdayBucket.CompletedTasks)
	assert.InDelta(t, 100.0, tuesdayBucket.CompletionPercentage, 0.001)

	// Buckets come back ordered by day.
	days := make([]string, 0, len(analytics.DayWiseCompletionData))
	for _, bucket := range analytics.DayWiseCompletionData {
		days = append(days, bucket.Day)
	}
	assert.IsIncreasing(t, days)
}
