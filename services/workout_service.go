package services

import (
	"context"
	"fmt"

	"fitness-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mastery grows one level per 25 recorded sets of an exercise, capped at 5.
const (
	setsPerMasteryLevel = 25
	maxMasteryLevel     = 5
)

// WorkoutService records exercise sets and workout completions and turns
// them into XP events. The per-set XP scales with the exercise difficulty.
type WorkoutService struct {
	DB     *gorm.DB
	Engine *ProgressionEngine
}

func NewWorkoutService(db *gorm.DB, engine *ProgressionEngine) *WorkoutService {
	return &WorkoutService{DB: db, Engine: engine}
}

// RecordSet stores one completed set, refreshes the exercise mastery level,
// unlocks the exercise in its category on first contact and grants
// difficulty-scaled XP scoped to the exercise's category.
func (s *WorkoutService) RecordSet(ctx context.Context, externalUserID, exerciseID string, reps int, weightKg float64) (*ProgressionResult, error) {
	var exercise models.Exercise
	if err := s.DB.Where("id = ?", exerciseID).First(&exercise).Error; err != nil {
		return nil, fmt.Errorf("exercise %q not found: %w", exerciseID, err)
	}

	set := &models.ExerciseSet{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		ExerciseID:     exercise.ID,
		Reps:           reps,
		WeightKg:       weightKg,
	}
	if err := s.DB.Create(set).Error; err != nil {
		return nil, err
	}

	var setCount int64
	if err := s.DB.Model(&models.ExerciseSet{}).
		Where("external_user_id = ? AND exercise_id = ?", externalUserID, exercise.ID).
		Count(&setCount).Error; err != nil {
		return nil, err
	}
	mastery := min(int(setCount/setsPerMasteryLevel)+1, maxMasteryLevel)

	// Resolve mastery and unlock before the XP grant so the achievement
	// scan evaluates against up-to-date counters.
	if err := s.Engine.UpdateCounters(ctx, externalUserID, -1, -1, map[string]int{exercise.ID: mastery}); err != nil {
		return nil, err
	}
	if setCount == 1 {
		if err := s.Engine.UnlockExercise(ctx, externalUserID, exercise.Category, exercise.ID); err != nil {
			return nil, err
		}
	}

	amount := int64(exercise.Difficulty) * DefaultXPWeights.SetXPPerDifficulty
	if amount <= 0 {
		amount = DefaultXPWeights.SetXPPerDifficulty
	}
	return s.Engine.ApplyXP(ctx, externalUserID, amount, "exercise", &exercise.Category, exercise.Name)
}

// CompleteWorkout bumps the completed-workout counter and grants the fixed
// workout XP.
func (s *WorkoutService) CompleteWorkout(ctx context.Context, externalUserID string) (*ProgressionResult, error) {
	if err := s.Engine.IncrementWorkouts(ctx, externalUserID); err != nil {
		return nil, err
	}
	return s.Engine.ApplyXP(ctx, externalUserID, DefaultXPWeights.WorkoutXP, "workout", nil, "")
}

// ListExercises returns the reference catalog, optionally filtered by
// category.
func (s *WorkoutService) ListExercises(category *models.Category) ([]models.Exercise, error) {
	q := s.DB.Order("category ASC, difficulty ASC, name ASC")
	if category != nil {
		q = q.Where("category = ?", *category)
	}
	var exercises []models.Exercise
	err := q.Find(&exercises).Error
	return exercises, err
}
