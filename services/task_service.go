package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitness-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskService owns the daily-habit task records. Completing a task is one of
// the XP-granting events feeding the progression engine; the XP amount
// policy lives here, not in the engine.
type TaskService struct {
	DB     *gorm.DB
	Engine *ProgressionEngine
}

func NewTaskService(db *gorm.DB, engine *ProgressionEngine) *TaskService {
	return &TaskService{DB: db, Engine: engine}
}

// CreateTask inserts a new open task for the user.
func (s *TaskService) CreateTask(externalUserID, title, notes string) (*models.Task, error) {
	if title == "" {
		return nil, errors.New("task title is required")
	}
	task := &models.Task{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		Title:          title,
		Notes:          notes,
	}
	if err := s.DB.Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns the user's tasks, open first.
func (s *TaskService) ListTasks(externalUserID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("completed ASC, created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// CompleteTask marks the task done, refreshes the user's streak counter and
// grants the fixed task XP. Completing an already-completed task is
// rejected so the reward cannot be farmed.
func (s *TaskService) CompleteTask(ctx context.Context, externalUserID, taskID string) (*ProgressionResult, error) {
	var task models.Task
	if err := s.DB.Where("id = ? AND external_user_id = ?", taskID, externalUserID).
		First(&task).Error; err != nil {
		return nil, fmt.Errorf("task not found: %w", err)
	}
	if task.Completed {
		return nil, errors.New("task already completed")
	}

	now := time.Now().UTC()
	task.Completed = true
	task.CompletedAt = &now
	if err := s.DB.Save(&task).Error; err != nil {
		return nil, err
	}

	// Resolve the streak before applying XP so the achievement scan sees it.
	streak, err := s.ComputeStreak(externalUserID, now)
	if err != nil {
		return nil, err
	}
	if err := s.Engine.UpdateCounters(ctx, externalUserID, streak, -1, nil); err != nil {
		return nil, err
	}

	return s.Engine.ApplyXP(ctx, externalUserID, DefaultXPWeights.TaskXP, "task", nil, task.Title)
}

// ComputeStreak counts consecutive calendar days (UTC) with at least one
// completed task, ending today or yesterday relative to now.
func (s *TaskService) ComputeStreak(externalUserID string, now time.Time) (int, error) {
	var days []time.Time
	err := s.DB.Raw(`
		SELECT DISTINCT date_trunc('day', completed_at) AS day
		FROM tasks
		WHERE external_user_id = ? AND completed = true AND deleted_at IS NULL
		ORDER BY day DESC
	`, externalUserID).Scan(&days).Error
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expected := today
	if !days[0].Equal(today) {
		// A streak survives until a full day is missed.
		expected = today.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range days {
		if !d.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak, nil
}
